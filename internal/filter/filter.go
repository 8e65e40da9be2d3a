// Package filter narrows the loaded bookings before they reach any view.
package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Preset names a date-navigation window relative to the reference date.
type Preset string

const (
	PresetAll    Preset = "all"
	PresetToday  Preset = "today"
	PresetWeek   Preset = "week"
	PresetMonth  Preset = "month"
	PresetCustom Preset = "custom"
)

// TimeRange is a time-of-day window. Empty bounds are open.
// A To at or before From wraps past midnight.
type TimeRange struct {
	From string
	To   string
}

// IsZero returns true if neither bound is set.
func (r TimeRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// DateWindow restricts bookings to the days they touch.
type DateWindow struct {
	Preset Preset
	From   time.Time // used by PresetCustom; zero is open
	To     time.Time // used by PresetCustom; zero is open
}

// Range resolves the window against ref. ok is false for an unbounded window.
func (w DateWindow) Range(ref time.Time) (from, to time.Time, ok bool) {
	ref = dateutil.TruncateToDay(ref)
	switch w.Preset {
	case PresetToday:
		return ref, ref, true
	case PresetWeek:
		from, to = dateutil.WeekRange(ref)
		return from, to, true
	case PresetMonth:
		from, to = dateutil.MonthRange(ref)
		return from, to, true
	case PresetCustom:
		return w.From, w.To, !w.From.IsZero() || !w.To.IsZero()
	default:
		return time.Time{}, time.Time{}, false
	}
}

func (w DateWindow) isDefault() bool {
	return w.Preset == "" || w.Preset == PresetAll
}

// Set is a group of independent predicates combined with AND.
// Empty Courts, Statuses and Types mean "any"; Text and MineOnly only
// filter when set.
type Set struct {
	Courts   []string
	Statuses []booking.Status
	Types    []string
	Hours    TimeRange
	Window   DateWindow
	Text     string
	MineOnly bool
}

// Reference carries what relative predicates are evaluated against.
type Reference struct {
	Date     time.Time
	Operator string
}

// Default returns the filter set the calendar opens with: confirmed and
// pending bookings on every court, any time.
func Default() Set {
	return Set{
		Statuses: []booking.Status{booking.StatusConfirmed, booking.StatusPending},
		Window:   DateWindow{Preset: PresetAll},
	}
}

// Apply returns the events matching every enabled predicate, in input order.
func Apply(events []*booking.Booking, set Set, ref Reference) []*booking.Booking {
	out := make([]*booking.Booking, 0, len(events))
	for _, b := range events {
		if Matches(b, set, ref) {
			out = append(out, b)
		}
	}
	return out
}

// Matches reports whether a single booking passes the set.
func Matches(b *booking.Booking, set Set, ref Reference) bool {
	if b == nil {
		return false
	}
	if len(set.Courts) > 0 && !slices.Contains(set.Courts, b.ResourceID) {
		return false
	}
	if len(set.Statuses) > 0 && !slices.Contains(set.Statuses, b.Status) {
		return false
	}
	if len(set.Types) > 0 && !containsFold(set.Types, b.Type) {
		return false
	}
	if !matchHours(b, set.Hours) {
		return false
	}
	if from, to, ok := set.Window.Range(ref.Date); ok && !touches(b, from, to) {
		return false
	}
	if text := strings.TrimSpace(set.Text); text != "" && !matchText(b, text) {
		return false
	}
	if set.MineOnly && (ref.Operator == "" || !strings.EqualFold(b.CreatedBy, ref.Operator)) {
		return false
	}
	return true
}

// ActiveCount returns how many predicates differ from Default.
func ActiveCount(set Set) int {
	def := Default()
	n := 0
	if len(set.Courts) > 0 {
		n++
	}
	if !sameStatuses(set.Statuses, def.Statuses) {
		n++
	}
	if len(set.Types) > 0 {
		n++
	}
	if !set.Hours.IsZero() {
		n++
	}
	if !set.Window.isDefault() {
		n++
	}
	if strings.TrimSpace(set.Text) != "" {
		n++
	}
	if set.MineOnly {
		n++
	}
	return n
}

// ToggleCourt adds or removes a court from the selection.
func (s Set) ToggleCourt(id string) Set {
	s.Courts = toggle(s.Courts, id)
	return s
}

// ToggleStatus adds or removes a status from the selection.
func (s Set) ToggleStatus(st booking.Status) Set {
	s.Statuses = toggle(s.Statuses, st)
	return s
}

// ToggleType adds or removes a booking type from the selection.
func (s Set) ToggleType(t string) Set {
	s.Types = toggle(s.Types, t)
	return s
}

func toggle[T comparable](list []T, v T) []T {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(slices.Clone(list), v)
}

// sameStatuses compares a and b as sets.
func sameStatuses(a, b []booking.Status) bool {
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	for _, s := range b {
		if !slices.Contains(a, s) {
			return false
		}
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func matchHours(b *booking.Booking, r TimeRange) bool {
	if r.IsZero() {
		return true
	}
	from, to := 0, slot.PerDay
	if r.From != "" {
		f, err := slot.Index(r.From)
		if err != nil {
			return true
		}
		from = f
	}
	if r.To != "" {
		t, err := slot.Index(r.To)
		if err != nil {
			return true
		}
		to = t
	}
	if to <= from {
		to += slot.PerDay
	}

	start, err := slot.Index(b.StartTime)
	if err != nil {
		return false
	}
	end := start + b.Slots()

	// The booking may run past midnight, so also try the window a day later/earlier.
	for _, shift := range []int{0, slot.PerDay, -slot.PerDay} {
		if start < to+shift && from+shift < end {
			return true
		}
	}
	return false
}

func touches(b *booking.Booking, from, to time.Time) bool {
	first := dateutil.CalendarDay(b.Date)
	last := dateutil.CalendarDay(b.LastDay())
	if !to.IsZero() && first.After(dateutil.CalendarDay(to)) {
		return false
	}
	if !from.IsZero() && last.Before(dateutil.CalendarDay(from)) {
		return false
	}
	return true
}

func matchText(b *booking.Booking, text string) bool {
	needle := strings.ToLower(text)
	for _, field := range []string{
		b.ID, b.ResourceID, b.CustomerName, b.CategoryName, b.Type, b.Notes, b.PaymentStatus,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
