package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/tui/commands"
)

var (
	day   = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) // Wednesday
	clock = func() time.Time { return day.Add(8*time.Hour + 15*time.Minute) }
)

type move struct {
	id, resourceID string
	start, end     time.Time
}

// memStore is an in-memory booking.Store.
type memStore struct {
	records   []booking.Record
	moves     []move
	cancelled []string
	moveErr   error
}

func (s *memStore) ListBookings(ctx context.Context, resourceIDs []string, from, to time.Time) ([]booking.Record, error) {
	var out []booking.Record
	for _, r := range s.records {
		if r.Start.Before(to) && r.End.After(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) GetBooking(ctx context.Context, id string) (*booking.Record, error) {
	for _, r := range s.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, booking.ErrNotFound
}

func (s *memStore) CreateBooking(ctx context.Context, rec *booking.Record) error {
	s.records = append(s.records, *rec)
	return nil
}

func (s *memStore) MoveBooking(ctx context.Context, id, resourceID string, start, end time.Time) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.moves = append(s.moves, move{id, resourceID, start, end})
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].ResourceID, s.records[i].Start, s.records[i].End = resourceID, start, end
		}
	}
	return nil
}

func (s *memStore) CancelBooking(ctx context.Context, id string) error {
	s.cancelled = append(s.cancelled, id)
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = booking.StatusCancelled
		}
	}
	return nil
}

func (s *memStore) Close() error { return nil }

func record(id, court, customer string, start, end time.Duration) booking.Record {
	return booking.Record{
		ID:         id,
		ResourceID: court,
		Start:      day.Add(start),
		End:        day.Add(end),
		Details:    booking.Details{Status: booking.StatusConfirmed, CustomerName: customer},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Club.Timezone = "UTC"
	cfg.Club.Operator = "maria"
	cfg.Club.Courts = []config.Court{{ID: "A", Name: "Court A"}, {ID: "B", Name: "Court B"}}
	return cfg
}

func newStore() *memStore {
	return &memStore{records: []booking.Record{
		record("b1", "A", "Ana", 9*time.Hour, 10*time.Hour),
		record("b2", "B", "Ben", 9*time.Hour, 10*time.Hour+30*time.Minute),
	}}
}

// loadedModel returns a sized model with its first page loaded.
func loadedModel(t *testing.T, store *memStore) Model {
	t.Helper()
	m := *New(store, testConfig(), WithClock(clock))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return update(t, m, m.Init()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press sends keys one by one and returns the command of the last one.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m, cmd
}

func TestNew_StartsOnToday(t *testing.T) {
	m := New(newStore(), testConfig(), WithClock(clock))

	if !dateutil.SameDay(m.cursor.Day, day) {
		t.Errorf("cursor day = %v, want %v", m.cursor.Day, day)
	}
	if m.cursor.Slot != 16 {
		t.Errorf("cursor slot = %d, want 16", m.cursor.Slot)
	}
	if m.firstSlot != 14 || m.lastSlot != 47 {
		t.Errorf("visible slots = [%d, %d), want [14, 47)", m.firstSlot, m.lastSlot)
	}
	if !m.loading || m.pending != (dateutil.DateRange{Start: day, End: day}) {
		t.Errorf("loading = %t, pending = %+v", m.loading, m.pending)
	}
}

func TestNew_ClampsCursorToVisibleHours(t *testing.T) {
	early := func() time.Time { return day.Add(3 * time.Hour) }
	m := New(newStore(), testConfig(), WithClock(early))
	if m.cursor.Slot != m.firstSlot {
		t.Errorf("cursor slot = %d, want first visible slot %d", m.cursor.Slot, m.firstSlot)
	}
}

func TestUpdate_RangeLoaded(t *testing.T) {
	m := loadedModel(t, newStore())

	if m.loading {
		t.Error("loading should be false after the range arrived")
	}
	if got := len(m.session.Bookings()); got != 2 {
		t.Fatalf("bookings = %d, want 2", got)
	}
}

func TestUpdate_DropsStaleLoad(t *testing.T) {
	m := loadedModel(t, newStore())
	m.pending = dateutil.DateRange{Start: day.AddDate(0, 0, 7), End: day.AddDate(0, 0, 7)}

	stale := commands.RangeLoadedMsg{Range: dateutil.DateRange{Start: day, End: day}}
	m = update(t, m, stale)
	if got := len(m.session.Bookings()); got != 2 {
		t.Errorf("stale load replaced the list: %d bookings", got)
	}
}

func TestNavigation_LoadsPagesOutsideRange(t *testing.T) {
	m := loadedModel(t, newStore())

	m, cmd := press(t, m, "L")
	if cmd == nil || !m.loading {
		t.Fatal("next day should trigger a load")
	}
	if !dateutil.SameDay(m.pending.Start, day.AddDate(0, 0, 1)) {
		t.Errorf("pending = %+v, want the next day", m.pending)
	}

	m = loadedModel(t, newStore())
	m, cmd = press(t, m, "tab")
	if m.zoom != calendar.ZoomWeek {
		t.Fatalf("zoom = %v, want week", m.zoom)
	}
	if cmd == nil || m.pending.Days()[0].Weekday() != time.Monday {
		t.Errorf("week zoom should load from Monday, pending = %+v", m.pending)
	}
}

func TestNavigation_CourtsAndSlots(t *testing.T) {
	m := loadedModel(t, newStore())

	m, _ = press(t, m, "l", "l", "j", "j")
	if m.cursor.Court != 1 {
		t.Errorf("court = %d, want 1 (clamped)", m.cursor.Court)
	}
	if m.cursor.Slot != 18 {
		t.Errorf("slot = %d, want 18", m.cursor.Slot)
	}

	m, _ = press(t, m, "k", "k", "k", "k", "k", "k")
	if m.cursor.Slot != m.firstSlot {
		t.Errorf("slot = %d, want clamped to %d", m.cursor.Slot, m.firstSlot)
	}
}

func TestDragAndDrop_PatchesHeldList(t *testing.T) {
	store := newStore()
	m := loadedModel(t, store)

	m, _ = press(t, m, "j", "j", "m")
	if m.mode != ModeDrag || m.drag.Booking() == nil || m.drag.Booking().ID != "b1" {
		t.Fatalf("mode = %v, want dragging b1", m.mode)
	}

	m, _ = press(t, m, "l", "j", "j", "j")
	m, cmd := press(t, m, "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal after drop", m.mode)
	}
	if cmd == nil {
		t.Fatal("drop should submit the move")
	}

	msg := cmd()
	settled, ok := msg.(commands.MoveSettledMsg)
	if !ok {
		t.Fatalf("msg = %T, want MoveSettledMsg", msg)
	}
	if len(store.moves) != 1 || store.moves[0].resourceID != "B" {
		t.Fatalf("store moves = %+v", store.moves)
	}

	m = update(t, m, settled)
	b := m.session.Find("b1")
	if b == nil || b.ResourceID != "B" || b.StartTime != "10:30" || b.EndTime != "11:30" {
		t.Fatalf("b1 = %+v, want B 10:30-11:30", b)
	}
	if m.loading {
		t.Error("a same-day move should patch, not reload")
	}
	if m.cursor.Court != 1 || m.cursor.Slot != 21 {
		t.Errorf("cursor = %+v, want on the moved booking", m.cursor)
	}
}

func TestDrop_OnTakenSlotIsRefused(t *testing.T) {
	store := newStore()
	m := loadedModel(t, store)

	m, _ = press(t, m, "j", "j", "m", "l")
	m, _ = press(t, m, "enter")

	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
	if !m.statusError || !strings.Contains(m.statusMsg, "taken") {
		t.Errorf("status = %q, want a taken error", m.statusMsg)
	}
	if len(store.moves) != 0 {
		t.Errorf("store moves = %+v, want none", store.moves)
	}
}

func TestDrag_EscCancels(t *testing.T) {
	m := loadedModel(t, newStore())
	m, _ = press(t, m, "j", "j", "m", "l", "esc")

	if m.mode != ModeNormal || m.drag.Dragging() {
		t.Fatalf("mode = %v, dragging = %t", m.mode, m.drag.Dragging())
	}
	if b := m.session.Find("b1"); b.ResourceID != "A" {
		t.Errorf("b1 moved to %s", b.ResourceID)
	}
}

func TestSettle_RejectedMoveReloads(t *testing.T) {
	store := newStore()
	store.moveErr = errors.New("court closed")
	m := loadedModel(t, store)

	m, _ = press(t, m, "j", "j", "m", "j", "j", "j", "j")
	m, cmd := press(t, m, "enter")
	m = update(t, m, cmd())

	if !m.loading {
		t.Error("a rejected move should reload the range")
	}
	if !m.statusError || !strings.Contains(m.statusMsg, "rejected") {
		t.Errorf("status = %q, want a rejection", m.statusMsg)
	}
	if b := m.session.Find("b1"); b.StartTime != "09:00" {
		t.Errorf("b1 start = %s, want unchanged 09:00", b.StartTime)
	}
}

func TestFilterPrompt(t *testing.T) {
	m := loadedModel(t, newStore())

	m, _ = press(t, m, "/")
	if m.mode != ModePrompt || m.promptKind != PromptFilter {
		t.Fatalf("mode = %v, want filter prompt", m.mode)
	}
	m.prompt.SetValue("court:B")
	m, _ = press(t, m, "enter")

	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
	if len(m.filter.Courts) != 1 || m.filter.Courts[0] != "B" {
		t.Fatalf("courts = %v, want [B]", m.filter.Courts)
	}
	if got := m.table("A", day).Occupant(18); got != nil {
		t.Errorf("court A should be filtered out, found %s", got.ID)
	}
}

func TestFilterPrompt_InvalidQuery(t *testing.T) {
	m := loadedModel(t, newStore())
	m, _ = press(t, m, "/")
	m.prompt.SetValue("status:maybe")
	m, _ = press(t, m, "enter")

	if !m.statusError {
		t.Errorf("status = %q, want an error", m.statusMsg)
	}
}

func TestFilterPrompt_TabCompletes(t *testing.T) {
	m := loadedModel(t, newStore())
	m, _ = press(t, m, "/")
	m.prompt.SetValue("st")
	m, _ = press(t, m, "tab")

	if got := m.prompt.Value(); got != "status:" {
		t.Errorf("prompt = %q, want status:", got)
	}
}

func TestToggleCancelled(t *testing.T) {
	m := loadedModel(t, newStore())
	m, _ = press(t, m, "c")
	if !hasStatus(m.filter, booking.StatusCancelled) {
		t.Fatal("cancelled bookings should be shown")
	}
	m, _ = press(t, m, "c")
	if hasStatus(m.filter, booking.StatusCancelled) {
		t.Fatal("cancelled bookings should be hidden again")
	}
}

func TestToggleCancelled_FromAllStatuses(t *testing.T) {
	m := loadedModel(t, newStore())
	m.filter.Statuses = nil

	m, _ = press(t, m, "c")
	if hasStatus(m.filter, booking.StatusCancelled) {
		t.Fatal("cancelled bookings should be hidden")
	}
	for _, st := range []booking.Status{booking.StatusConfirmed, booking.StatusPending, booking.StatusCompleted} {
		if !hasStatus(m.filter, st) {
			t.Errorf("%s bookings should still be shown", st)
		}
	}
	if !strings.Contains(m.statusMsg, "Hiding") {
		t.Errorf("status = %q, want the hiding message", m.statusMsg)
	}
}

func TestDetailModal_CancelBooking(t *testing.T) {
	store := newStore()
	m := loadedModel(t, store)

	m, _ = press(t, m, "j", "j", "enter")
	if m.modalType != ModalDetail || m.modalBooking.ID != "b1" {
		t.Fatalf("modal = %v, want detail of b1", m.modalType)
	}

	m, _ = press(t, m, "x")
	if m.modalType != ModalConfirmCancel {
		t.Fatalf("modal = %v, want cancel confirmation", m.modalType)
	}

	m, cmd := press(t, m, "y")
	if m.mode != ModeNormal || cmd == nil {
		t.Fatalf("mode = %v, want normal with a cancel command", m.mode)
	}
	msg := cmd()
	if _, ok := msg.(commands.BookingCancelledMsg); !ok {
		t.Fatalf("msg = %T, want BookingCancelledMsg", msg)
	}
	if len(store.cancelled) != 1 || store.cancelled[0] != "b1" {
		t.Errorf("cancelled = %v", store.cancelled)
	}

	m = update(t, m, msg)
	if !m.loading {
		t.Error("cancelling should reload the range")
	}
}

func TestMonthEnterOpensDay(t *testing.T) {
	m := loadedModel(t, newStore())
	m, _ = press(t, m, "3", "l", "enter")

	if m.zoom != calendar.ZoomDay {
		t.Fatalf("zoom = %v, want day", m.zoom)
	}
	if !dateutil.SameDay(m.cursor.Day, day.AddDate(0, 0, 1)) {
		t.Errorf("day = %v, want the next day", m.cursor.Day)
	}
}

func TestView_RendersDayPage(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	m := loadedModel(t, newStore())
	out := m.View()

	for _, want := range []string{"Wed 12 Mar 2025", "Court A", "Court B", "Ana", "Ben", "09:00 – 10:00", "filter: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 40 {
		t.Errorf("view has %d lines, want 40", len(lines))
	}
}

func TestView_CursorUsesSelectionColor(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	m := loadedModel(t, newStore())
	sel := m.styles.palette.BgSelection
	seq := termenv.TrueColor.Color(string(sel)).Sequence(true)

	if !strings.Contains(m.View(), seq) {
		t.Errorf("view does not use the selection background %s", sel)
	}
}

func TestView_TooSmall(t *testing.T) {
	m := loadedModel(t, newStore())
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := m.View(); !strings.Contains(got, "too small") {
		t.Errorf("view = %q", got)
	}
}
