// Package calendar turns the loaded bookings into day, week and month grids
// and owns the in-memory booking list for one operator session.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/occupancy"
)

// Zoom is the calendar scale.
type Zoom int

const (
	ZoomDay Zoom = iota
	ZoomWeek
	ZoomMonth
)

func (z Zoom) String() string {
	switch z {
	case ZoomWeek:
		return "week"
	case ZoomMonth:
		return "month"
	default:
		return "day"
	}
}

// Next cycles day → week → month → day.
func (z Zoom) Next() Zoom {
	return (z + 1) % 3
}

// ParseZoom reads "day", "week" or "month".
func ParseZoom(s string) (Zoom, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return ZoomDay, nil
	case "week":
		return ZoomWeek, nil
	case "month":
		return ZoomMonth, nil
	default:
		return ZoomDay, fmt.Errorf("unknown zoom %q", s)
	}
}

// Range returns the days that must be loaded to render anchor at this zoom.
func (z Zoom) Range(anchor time.Time) dateutil.DateRange {
	anchor = dateutil.TruncateToDay(anchor)
	switch z {
	case ZoomWeek:
		monday, sunday := dateutil.WeekRange(anchor)
		return dateutil.DateRange{Start: monday, End: sunday}
	case ZoomMonth:
		return dateutil.MonthGrid(anchor)
	default:
		return dateutil.DateRange{Start: anchor, End: anchor}
	}
}

// Step moves anchor one page forward (n > 0) or back (n < 0).
func (z Zoom) Step(anchor time.Time, n int) time.Time {
	switch z {
	case ZoomWeek:
		return anchor.AddDate(0, 0, 7*n)
	case ZoomMonth:
		first, _ := dateutil.MonthRange(anchor)
		return first.AddDate(0, n, 0)
	default:
		return anchor.AddDate(0, 0, n)
	}
}

// DayView is every court side by side for one day.
type DayView struct {
	Day       time.Time
	Resources []string
	Tables    []*occupancy.Table // parallel to Resources
}

// BuildDay resolves one occupancy table per resource.
func BuildDay(resources []string, day time.Time, segments []booking.Segment) DayView {
	v := DayView{Day: day, Resources: resources, Tables: make([]*occupancy.Table, len(resources))}
	for i, r := range resources {
		v.Tables[i] = occupancy.Resolve(r, day, booking.SegmentsOn(segments, r, day))
	}
	return v
}

// Table returns the table for a resource, or nil.
func (v DayView) Table(resourceID string) *occupancy.Table {
	for i, r := range v.Resources {
		if r == resourceID {
			return v.Tables[i]
		}
	}
	return nil
}

// Collisions gathers every collision found in the view.
func (v DayView) Collisions() []occupancy.Collision {
	var out []occupancy.Collision
	for _, t := range v.Tables {
		out = append(out, t.Collisions...)
	}
	return out
}

// WeekView is one court across the seven days of an ISO week.
type WeekView struct {
	ResourceID string
	Days       []time.Time
	Tables     []*occupancy.Table // parallel to Days
}

// BuildWeek resolves the week containing anchor for a single resource.
func BuildWeek(resourceID string, anchor time.Time, segments []booking.Segment) WeekView {
	monday, _ := dateutil.WeekRange(anchor)
	v := WeekView{ResourceID: resourceID}
	for i := range 7 {
		d := monday.AddDate(0, 0, i)
		v.Days = append(v.Days, d)
		v.Tables = append(v.Tables, occupancy.Resolve(resourceID, d, booking.SegmentsOn(segments, resourceID, d)))
	}
	return v
}

// DayCell summarises one day of the month grid.
type DayCell struct {
	Date     time.Time
	InMonth  bool
	Bookings []*booking.Booking // segments on this day, in input order
	Slots    int                // half-hour slots booked across all courts
}

// Count returns the number of bookings shown on the day.
func (c DayCell) Count() int {
	return len(c.Bookings)
}

// MonthView is a 6x7 grid of ISO weeks covering a month.
type MonthView struct {
	Month time.Time
	Weeks [6][7]DayCell
}

// BuildMonth summarises segments for the month containing anchor.
func BuildMonth(anchor time.Time, segments []booking.Segment) MonthView {
	first, _ := dateutil.MonthRange(anchor)
	grid := dateutil.MonthGrid(anchor)
	v := MonthView{Month: first}

	index := make(map[time.Time]*DayCell, 42)
	for i, d := range grid.Days() {
		cell := &v.Weeks[i/7][i%7]
		cell.Date = d
		cell.InMonth = d.Month() == first.Month()
		index[dateutil.CalendarDay(d)] = cell
	}

	for _, seg := range segments {
		cell, ok := index[dateutil.CalendarDay(seg.Day)]
		if !ok {
			continue
		}
		cell.Bookings = append(cell.Bookings, seg.Booking)
		cell.Slots += seg.Booking.Slots()
	}
	return v
}

// Cell returns the grid cell for date, if shown.
func (v MonthView) Cell(date time.Time) (DayCell, bool) {
	for _, week := range v.Weeks {
		for _, c := range week {
			if dateutil.SameDay(c.Date, date) {
				return c, true
			}
		}
	}
	return DayCell{}, false
}
