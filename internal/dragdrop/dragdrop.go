// Package dragdrop implements the pick-up / drop gesture that moves a booking
// to another court or time, and decides how the calendar absorbs the move.
package dragdrop

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Drag errors.
var (
	ErrNotDragging     = errors.New("no booking is being dragged")
	ErrAlreadyDragging = errors.New("already dragging a booking")
	ErrNothingToPickUp = errors.New("no booking to pick up")
)

// State is the phase of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Strategy is how the in-memory booking list absorbs a confirmed move.
type Strategy int

const (
	// Patch replaces the single moved booking in place.
	Patch Strategy = iota
	// Reload refetches the loaded range from the store.
	Reload
)

func (s Strategy) String() string {
	if s == Reload {
		return "reload"
	}
	return "patch"
}

// Target is where a booking is dropped.
type Target struct {
	ResourceID string
	Slot       int
	Day        time.Time
}

// Assignment is the computed outcome of a drop.
type Assignment struct {
	BookingID       string
	ResourceID      string
	Start           time.Time // local
	End             time.Time // local
	Slots           int
	SourceDay       time.Time
	BecameOvernight bool // the new range ends on a later calendar day
	MovedAcrossDay  bool // the booking no longer touches the day it was picked up from
}

// Strategy is the single decision table for absorbing a move: anything that
// changes which days the booking appears on needs a reload.
func (a Assignment) Strategy() Strategy {
	if a.BecameOvernight || a.MovedAcrossDay {
		return Reload
	}
	return Patch
}

// Unchanged returns true if dropping b here would not move it.
func (a Assignment) Unchanged(b *booking.Booking) bool {
	return b.ResourceID == a.ResourceID && b.Start().Equal(a.Start)
}

// Apply returns a copy of b at its new position. The copy is rebuilt from
// store instants, so it segments exactly like a freshly loaded record.
func (a Assignment) Apply(b *booking.Booking) (*booking.Booking, error) {
	rec := b.Record()
	rec.ResourceID = a.ResourceID
	rec.Start = a.Start.UTC()
	rec.End = a.End.UTC()
	return rec.Normalize(a.Start.Location())
}

// Compute works out where b lands when dropped on target. The booking keeps
// its length in slots.
func Compute(b *booking.Booking, sourceDay time.Time, target Target) (Assignment, error) {
	if b == nil {
		return Assignment{}, ErrNothingToPickUp
	}
	if target.ResourceID == "" {
		return Assignment{}, booking.ErrEmptyResource
	}

	start, err := slot.Combine(target.Day, target.Slot)
	if err != nil {
		return Assignment{}, fmt.Errorf("drop target: %w", err)
	}
	n, err := slot.Duration(b.StartTime, b.EndTime)
	if err != nil {
		return Assignment{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	end := start.Add(time.Duration(n) * slot.Length)

	return Assignment{
		BookingID:       b.ID,
		ResourceID:      target.ResourceID,
		Start:           start,
		End:             end,
		Slots:           n,
		SourceDay:       sourceDay,
		BecameOvernight: !sameDay(start, end),
		MovedAcrossDay:  !sameDay(start, sourceDay) && !sameDay(end, sourceDay),
	}, nil
}

// Machine tracks a single drag gesture: Idle until PickUp, Dragging until
// Drop or Cancel. The zero value is an idle machine.
type Machine struct {
	state     State
	booking   *booking.Booking
	sourceDay time.Time
	hover     Target
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Dragging returns true while a booking is picked up.
func (m *Machine) Dragging() bool {
	return m.state == Dragging
}

// Booking returns the booking being dragged, or nil.
func (m *Machine) Booking() *booking.Booking {
	return m.booking
}

// SourceDay returns the day the booking was picked up from.
func (m *Machine) SourceDay() time.Time {
	return m.sourceDay
}

// PickUp starts dragging b from sourceDay.
func (m *Machine) PickUp(b *booking.Booking, sourceDay time.Time) error {
	if m.state == Dragging {
		return ErrAlreadyDragging
	}
	if b == nil {
		return ErrNothingToPickUp
	}
	m.state = Dragging
	m.booking = b
	m.sourceDay = sourceDay
	m.hover = Target{ResourceID: b.ResourceID, Slot: slot.Of(b.Start()), Day: sourceDay}
	return nil
}

// Hover records the target currently under the cursor.
func (m *Machine) Hover(t Target) error {
	if m.state != Dragging {
		return ErrNotDragging
	}
	m.hover = t
	return nil
}

// Target returns the last hovered target.
func (m *Machine) Target() Target {
	return m.hover
}

// Preview computes the assignment for the hovered target without ending the gesture.
func (m *Machine) Preview() (Assignment, error) {
	if m.state != Dragging {
		return Assignment{}, ErrNotDragging
	}
	return Compute(m.booking, m.sourceDay, m.hover)
}

// Drop ends the gesture on target. An invalid target cancels the gesture
// and returns the error.
func (m *Machine) Drop(target Target) (Assignment, error) {
	if m.state != Dragging {
		return Assignment{}, ErrNotDragging
	}
	b, src := m.booking, m.sourceDay
	m.Cancel()
	return Compute(b, src, target)
}

// Cancel ends the gesture without moving anything.
func (m *Machine) Cancel() {
	m.state = Idle
	m.booking = nil
	m.sourceDay = time.Time{}
	m.hover = Target{}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
