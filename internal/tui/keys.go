package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/llm"
	"github.com/javiermolinar/courtside/internal/slot"
	"github.com/javiermolinar/courtside/internal/tui/commands"
	"github.com/javiermolinar/courtside/internal/tui/input"
	"github.com/javiermolinar/courtside/internal/tui/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug().Str("key", msg.String()).Stringer("mode", m.mode).Msg("key press")

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m, ok := m.navigate(msg.String()); ok {
		return m.refresh()
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Zoom
	case "tab", "z":
		m.zoom = m.zoom.Next()
		return m.refresh()
	case "1":
		m.zoom = calendar.ZoomDay
		return m.refresh()
	case "2":
		m.zoom = calendar.ZoomWeek
		return m.refresh()
	case "3":
		m.zoom = calendar.ZoomMonth
		return m.refresh()

	case "enter":
		if m.zoom == calendar.ZoomMonth {
			m.zoom = calendar.ZoomDay
			return m.refresh()
		}
		if b := m.occupant(); b != nil {
			m.openModal(ModalDetail, b)
		}

	// Drag
	case "m", " ":
		return m.pickUp()

	// Filters
	case "/":
		return m.openPrompt(PromptFilter, m.filter.String(), "court:A status:all hours:18:00-22:00 smith")
	case "a":
		return m.openPrompt(PromptAsk, "", "which courts are free tonight?")
	case "c":
		if len(m.filter.Statuses) == 0 {
			m.filter.Statuses = slices.Clone(booking.Statuses)
		}
		m.filter = m.filter.ToggleStatus(booking.StatusCancelled)
		if hasStatus(m.filter, booking.StatusCancelled) {
			return m.withStatus("Showing cancelled bookings")
		}
		return m.withStatus("Hiding cancelled bookings")
	case "M":
		m.filter.MineOnly = !m.filter.MineOnly
		return m.withStatus(fmt.Sprintf("Mine only %s", onOff(m.filter.MineOnly)))
	case "F":
		m.filter = filter.Default()
		return m.withStatus("Filters cleared")

	case "r":
		cmd := m.load(m.zoom.Range(m.cursor.Day))
		return m, cmd
	case "?":
		m.openModal(ModalHelp, nil)
	}
	return m, nil
}

// navigate applies a cursor movement key. It reports false for other keys.
func (m Model) navigate(key string) (Model, bool) {
	visible := max(m.visibleSlotRows(m.gridHeight()), 1)

	switch key {
	case "h", "left":
		m.moveHorizontal(-1)
	case "l", "right":
		m.moveHorizontal(1)
	case "j", "down":
		m.moveVertical(1)
	case "k", "up":
		m.moveVertical(-1)
	case "pgdown", "ctrl+d":
		m.moveVertical(visible)
	case "pgup", "ctrl+u":
		m.moveVertical(-visible)
	case "H", "shift+left":
		m.cursor.Day = m.zoom.Step(m.cursor.Day, -1)
	case "L", "shift+right":
		m.cursor.Day = m.zoom.Step(m.cursor.Day, 1)
	case "[":
		m.moveCourt(-1)
	case "]":
		m.moveCourt(1)
	case "t":
		now := m.now().In(m.session.Location())
		m.cursor.Day = dateutil.TruncateToDay(now)
		m.cursor.Slot = m.clampSlot(slot.Of(now))
	default:
		return m, false
	}
	m.ensureCursorVisible()
	return m, true
}

// moveHorizontal steps across courts in day zoom and across days otherwise.
func (m *Model) moveHorizontal(n int) {
	if m.zoom == calendar.ZoomDay {
		m.moveCourt(n)
		return
	}
	m.cursor.Day = m.cursor.Day.AddDate(0, 0, n)
}

// moveVertical steps across slots, or across weeks in month zoom.
func (m *Model) moveVertical(n int) {
	if m.zoom == calendar.ZoomMonth {
		if n > 1 || n < -1 {
			m.cursor.Day = m.zoom.Step(m.cursor.Day, sign(n))
			return
		}
		m.cursor.Day = m.cursor.Day.AddDate(0, 0, 7*n)
		return
	}
	m.cursor.Slot = m.clampSlot(m.cursor.Slot + n)
}

func (m *Model) moveCourt(n int) {
	count := len(m.resources())
	if count == 0 {
		m.cursor.Court = 0
		return
	}
	m.cursor.Court = min(max(m.cursor.Court+n, 0), count-1)
}

// ensureCursorVisible scrolls the slot rows so the cursor is on screen.
func (m *Model) ensureCursorVisible() {
	rows := m.visibleSlotRows(m.gridHeight())
	if rows <= 0 {
		m.scrollOffset = 0
		return
	}
	row := m.cursor.Slot - m.firstSlot
	if row < m.scrollOffset {
		m.scrollOffset = row
	}
	if row >= m.scrollOffset+rows {
		m.scrollOffset = row - rows + 1
	}
	m.scrollOffset = min(max(m.scrollOffset, 0), m.lastSlot-m.firstSlot-rows)
}

// handleDragKeys moves the hover target and drops or cancels.
func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.drag.Cancel()
		m.mode = ModeNormal
		return m.withStatus("Move cancelled")
	case "enter", "m", " ":
		return m.drop()
	}

	moved, ok := m.navigate(msg.String())
	if !ok {
		return m, nil
	}
	m = moved
	if err := m.drag.Hover(m.target()); err != nil {
		m.mode = ModeNormal
		return m.withError(err)
	}
	return m.refresh()
}

// pickUp starts dragging the booking under the cursor.
func (m Model) pickUp() (tea.Model, tea.Cmd) {
	if m.zoom == calendar.ZoomMonth {
		return m.withStatus("Switch to day or week view to move bookings")
	}
	b := m.occupant()
	if b == nil {
		return m.withStatus("No booking here")
	}
	if b.IsCancelled() {
		return m.withStatus("Cancelled bookings cannot be moved")
	}
	if err := m.drag.PickUp(b, m.cursor.Day); err != nil {
		return m.withError(err)
	}
	// Move the cursor onto the card's start so the preview begins where the card is.
	m.cursor.Slot = m.clampSlot(m.drag.Target().Slot)
	_ = m.drag.Hover(m.target())
	m.ensureCursorVisible()
	m.mode = ModeDrag
	return m.withStatus(fmt.Sprintf("Moving %s %s", view.CardText(b.CustomerName, b.Type, b.ID), b.Label()))
}

// drop ends the drag on the cursor and submits the move.
func (m Model) drop() (tea.Model, tea.Cmd) {
	b := m.drag.Booking()
	a, err := m.drag.Drop(m.target())
	m.mode = ModeNormal
	if err != nil {
		return m.withError(fmt.Errorf("cannot drop here: %w", err))
	}
	if a.Unchanged(b) {
		return m.withStatus("Booking not moved")
	}
	tbl := m.occupiedTable(a.ResourceID, dateutil.TruncateToDay(a.Start))
	if !tbl.CanDrop(slot.Of(a.Start), a.Slots, a.BookingID) {
		return m.withError(fmt.Errorf("%s is taken at %s", m.config.CourtName(a.ResourceID), a.Start.Format("15:04")))
	}

	m.logger.Info().
		Str("booking_id", a.BookingID).
		Str("resource_id", a.ResourceID).
		Time("start", a.Start).
		Stringer("strategy", a.Strategy()).
		Msg("submitting move")
	m.statusMsg = "Moving..."
	m.statusError = false
	return m, commands.MoveBooking(m.store, a)
}

// openPrompt focuses the prompt line.
func (m Model) openPrompt(kind PromptKind, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = ModePrompt
	m.promptKind = kind
	m.prompt.Prompt = "filter> "
	if kind == PromptAsk {
		m.prompt.Prompt = "ask> "
	}
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	cmd := m.prompt.Focus()
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// handlePromptKeys handles keys while the prompt line is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "tab":
		if m.promptKind == PromptFilter {
			if completed, ok := input.Autocomplete(m.prompt.Value(), input.FilterKeys); ok {
				m.prompt.SetValue(completed)
				m.prompt.CursorEnd()
			}
		}
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		kind := m.promptKind
		m.closePrompt()
		if kind == PromptAsk {
			return m.ask(value)
		}
		set, err := filter.Parse(value)
		if err != nil {
			return m.withError(err)
		}
		m.filter = set
		return m.withStatus(fmt.Sprintf("%d filters active", filter.ActiveCount(set)))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// ask sends a natural language question to the LLM.
func (m Model) ask(question string) (tea.Model, tea.Cmd) {
	if question == "" {
		return m, nil
	}
	req := llm.FilterRequest{
		Question: question,
		Now:      m.now().In(m.session.Location()),
		Operator: m.session.Operator(),
		Courts:   m.resources(),
		Types:    m.knownTypes(),
	}
	m.statusMsg = "Asking..."
	m.statusError = false
	return m, commands.Ask(m.config.LLM, req)
}

// knownTypes lists the booking types seen in the loaded bookings.
func (m Model) knownTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, b := range m.session.Bookings() {
		t := strings.ToLower(strings.TrimSpace(b.Type))
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}

func (m *Model) openModal(t ModalType, b *booking.Booking) {
	m.mode = ModeModal
	m.modalType = t
	m.modalBooking = b
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalBooking = nil
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.modalType {
	case ModalDetail:
		switch key {
		case "y":
			if err := clipboard.WriteAll(view.PlainFields(m.detailFields(m.modalBooking))); err != nil {
				return m.withError(fmt.Errorf("copying booking: %w", err))
			}
			return m.withStatus("Copied booking to clipboard")
		case "x":
			if m.modalBooking != nil && !m.modalBooking.IsCancelled() {
				m.modalType = ModalConfirmCancel
			}
			return m, nil
		case "m":
			b := m.modalBooking
			m.closeModal()
			if b == nil {
				return m, nil
			}
			return m.pickUp()
		}
	case ModalConfirmCancel:
		switch key {
		case "y", "enter":
			id := m.modalBooking.ID
			m.closeModal()
			m.statusMsg = "Cancelling..."
			return m, commands.CancelBooking(m.store, id)
		case "n":
			m.modalType = ModalDetail
			return m, nil
		}
	}

	switch key {
	case "esc", "q", "enter", "?":
		m.closeModal()
	}
	return m, nil
}

// withStatus shows a temporary status message.
func (m Model) withStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusError = false
	m.statusTime = time.Now().Add(3 * time.Second)
	return m, commands.ClearStatusAfter(3 * time.Second)
}

// withError shows an error in the status line.
func (m Model) withError(err error) (tea.Model, tea.Cmd) {
	m.statusMsg = "Error: " + err.Error()
	m.statusError = true
	m.statusTime = time.Now().Add(5 * time.Second)
	return m, commands.ClearStatusAfter(5 * time.Second)
}

func hasStatus(set filter.Set, st booking.Status) bool {
	if len(set.Statuses) == 0 {
		return true
	}
	for _, s := range set.Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
