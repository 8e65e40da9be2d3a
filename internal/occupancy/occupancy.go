// Package occupancy resolves which booking holds each half-hour slot of a
// court's day and where each booking's card is anchored.
package occupancy

import (
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Cell is one slot of a resolved day.
type Cell struct {
	Booking *booking.Booking // nil when free
	Anchor  bool             // true only on the slot that renders the card
}

// Collision reports a slot claimed by a booking after an earlier one already held it.
type Collision struct {
	Slot    int
	Kept    *booking.Booking
	Dropped *booking.Booking
}

func (c Collision) Error() string {
	return fmt.Sprintf("slot %s: %s kept, %s dropped", slot.ToTime(c.Slot), c.Kept.ID, c.Dropped.ID)
}

func (c Collision) Unwrap() error {
	return booking.ErrSlotCollision
}

// Skip reports a segment that could not be placed.
type Skip struct {
	BookingID string
	Err       error
}

// Table is the occupancy of one resource on one calendar day.
// Tables are immutable once resolved.
type Table struct {
	ResourceID string
	Day        time.Time
	Collisions []Collision
	Skipped    []Skip

	cells [slot.PerDay]Cell
}

// Anchor is a rendered card: the booking, its anchor slot and how many
// consecutive slots it holds from there until the end of the day.
type Anchor struct {
	Slot    int
	Span    int
	Booking *booking.Booking
}

// Resolve builds the occupancy table for resourceID on day.
//
// A booking covers (start+i) mod 48 for i in [0, duration). When two bookings
// cover the same slot the one earlier in segments keeps it. A booking whose
// start slot was taken is anchored on the first slot it still holds, so every
// booking with at least one slot has exactly one anchor.
func Resolve(resourceID string, day time.Time, segments []booking.Segment) *Table {
	t := &Table{ResourceID: resourceID, Day: day}

	for _, seg := range segments {
		b := seg.Booking
		if b == nil || b.ResourceID != resourceID || !seg.OnDay(day) {
			continue
		}

		start, err := slot.Index(b.StartTime)
		if err != nil {
			t.Skipped = append(t.Skipped, Skip{BookingID: b.ID, Err: err})
			continue
		}
		duration, err := slot.Duration(b.StartTime, b.EndTime)
		if err != nil {
			t.Skipped = append(t.Skipped, Skip{BookingID: b.ID, Err: err})
			continue
		}
		duration = min(duration, slot.PerDay)

		anchor := -1
		for i := range duration {
			s := (start + i) % slot.PerDay
			switch holder := t.cells[s].Booking; {
			case holder == nil:
				t.cells[s].Booking = b
				if anchor < 0 {
					anchor = s
				}
			case holder != b:
				t.Collisions = append(t.Collisions, Collision{Slot: s, Kept: holder, Dropped: b})
			}
		}
		if anchor >= 0 {
			t.cells[anchor].Anchor = true
		}
	}

	return t
}

// Cell returns the cell at slot s. Out-of-range slots are reported as free.
func (t *Table) Cell(s int) Cell {
	if !slot.Valid(s) {
		return Cell{}
	}
	return t.cells[s]
}

// Occupant returns the booking holding slot s, or nil.
func (t *Table) Occupant(s int) *booking.Booking {
	return t.Cell(s).Booking
}

// IsAnchor returns true if slot s carries a booking card.
func (t *Table) IsAnchor(s int) bool {
	return t.Cell(s).Anchor
}

// IsFree returns true if no booking holds slot s.
func (t *Table) IsFree(s int) bool {
	return slot.Valid(s) && t.cells[s].Booking == nil
}

// AnchorOf returns the anchor slot of the booking with the given ID.
func (t *Table) AnchorOf(id string) (int, bool) {
	for s, c := range t.cells {
		if c.Anchor && c.Booking.ID == id {
			return s, true
		}
	}
	return 0, false
}

// Anchors lists every rendered card in slot order.
func (t *Table) Anchors() []Anchor {
	var anchors []Anchor
	for s, c := range t.cells {
		if c.Anchor {
			anchors = append(anchors, Anchor{Slot: s, Span: t.Span(s), Booking: c.Booking})
		}
	}
	return anchors
}

// Span returns how many consecutive slots from s, up to the end of the day,
// belong to the booking anchored at s. Non-anchor slots have a span of 0.
func (t *Table) Span(s int) int {
	if !t.IsAnchor(s) {
		return 0
	}
	b := t.cells[s].Booking
	n := 1
	for i := s + 1; i < slot.PerDay; i++ {
		c := t.cells[i]
		if c.Booking != b || c.Anchor {
			break
		}
		n++
	}
	return n
}

// Occupied returns the number of held slots.
func (t *Table) Occupied() int {
	n := 0
	for _, c := range t.cells {
		if c.Booking != nil {
			n++
		}
	}
	return n
}

// CanDrop reports whether a booking of the given length can start at slot
// start without landing on another booking. Slots held by ignoreID (the
// booking being dragged) count as free. Slots past midnight fall on the next
// day and are left for the store to check.
func (t *Table) CanDrop(start, duration int, ignoreID string) bool {
	if !slot.Valid(start) || duration <= 0 {
		return false
	}
	for s := start; s < start+duration && s < slot.PerDay; s++ {
		if b := t.cells[s].Booking; b != nil && b.ID != ignoreID {
			return false
		}
	}
	return true
}
