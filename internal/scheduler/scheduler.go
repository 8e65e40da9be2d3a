// Package scheduler finds open court time inside the club's opening hours.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/occupancy"
	"github.com/javiermolinar/courtside/internal/slot"
)

// ErrNoOpening is returned when no court has room for the requested length.
var ErrNoOpening = errors.New("no court is free for that long")

// Scheduler knows the bookable window of a day.
type Scheduler struct {
	first int // first bookable slot
	last  int // exclusive
}

// New creates a Scheduler open from dayStart until dayEnd.
func New(dayStart, dayEnd string) (*Scheduler, error) {
	first, err := slot.Index(dayStart)
	if err != nil {
		return nil, fmt.Errorf("day start: %w", err)
	}
	last, err := slot.Index(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("day end: %w", err)
	}
	if last <= first {
		return nil, fmt.Errorf("day end %s must be after day start %s", dayEnd, dayStart)
	}
	return &Scheduler{first: first, last: last}, nil
}

// Opening is a run of free slots on one court.
type Opening struct {
	ResourceID string
	Day        time.Time
	Start      int
	Slots      int
}

// Label formats the opening like a booking card.
func (o Opening) Label() string {
	return slot.Label(slot.ToTime(o.Start), slot.ToTime((o.Start+o.Slots)%slot.PerDay))
}

// StartTime returns the local instant the opening begins.
func (o Opening) StartTime() time.Time {
	t, _ := slot.Combine(o.Day, o.Start)
	return t
}

// Openings returns the free runs on tbl of at least minSlots, inside opening
// hours and not before now when tbl is today.
func (s *Scheduler) Openings(tbl *occupancy.Table, now time.Time, minSlots int) []Opening {
	minSlots = max(minSlots, 1)
	from := s.first
	if dateutil.SameDay(tbl.Day, now) {
		from = max(from, roundUpToSlot(now))
	}

	var out []Opening
	run := -1
	flush := func(end int) {
		if run >= 0 && end-run >= minSlots {
			out = append(out, Opening{ResourceID: tbl.ResourceID, Day: tbl.Day, Start: run, Slots: end - run})
		}
		run = -1
	}
	for i := from; i < s.last; i++ {
		if tbl.IsFree(i) {
			if run < 0 {
				run = i
			}
			continue
		}
		flush(i)
	}
	flush(s.last)
	return out
}

// NextAvailableStart returns the earliest opening of exactly n slots across
// tables. Ties go to the table listed first.
func (s *Scheduler) NextAvailableStart(tables []*occupancy.Table, now time.Time, n int) (Opening, error) {
	var best Opening
	found := false
	for _, tbl := range tables {
		openings := s.Openings(tbl, now, n)
		if len(openings) == 0 {
			continue
		}
		o := openings[0]
		if !found || o.StartTime().Before(best.StartTime()) {
			best, found = o, true
		}
	}
	if !found {
		return Opening{}, ErrNoOpening
	}
	best.Slots = n
	return best, nil
}

// CanFit reports whether n slots starting at start stay inside opening hours.
func (s *Scheduler) CanFit(start, n int) bool {
	return start >= s.first && n > 0 && start+n <= s.last
}

// SlotsFor converts a duration into a whole number of slots.
func SlotsFor(d time.Duration) (int, error) {
	if d <= 0 || d%slot.Length != 0 {
		return 0, fmt.Errorf("length %s is not a multiple of %s", d, slot.Length)
	}
	return int(d / slot.Length), nil
}

// roundUpToSlot returns the first slot starting at or after t.
func roundUpToSlot(t time.Time) int {
	s := slot.Of(t)
	if t.Minute()%slot.Minutes != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		s++
	}
	return s
}
