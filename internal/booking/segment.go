package booking

import "time"

// Segment is the projection of a booking onto one calendar day.
// It carries no time range of its own; labels always come from the booking.
type Segment struct {
	Booking *Booking
	Day     time.Time
}

// Label returns the booking's full range, identical on both days of an overnight booking.
func (s Segment) Label() string {
	return s.Booking.Label()
}

// IsContinuation returns true for the end-day segment of an overnight booking.
func (s Segment) IsContinuation() bool {
	return s.Booking.IsOvernight() && !sameDay(s.Day, s.Booking.Date)
}

// OnDay returns true if the segment belongs to the calendar day of d.
func (s Segment) OnDay(d time.Time) bool {
	return sameDay(s.Day, d)
}

// SegmentOf returns the days a booking must appear on: one for same-day
// bookings, two (start day first) for overnight ones. b is not modified.
func SegmentOf(b *Booking) []Segment {
	if b == nil {
		return nil
	}
	if !b.IsOvernight() {
		return []Segment{{Booking: b, Day: b.Date}}
	}
	return []Segment{
		{Booking: b, Day: b.Date},
		{Booking: b, Day: *b.EndDate},
	}
}

// SegmentAll segments every booking, keeping input order.
func SegmentAll(bookings []*Booking) []Segment {
	segments := make([]Segment, 0, len(bookings))
	for _, b := range bookings {
		segments = append(segments, SegmentOf(b)...)
	}
	return segments
}

// SegmentsOn filters segments down to one resource and day, keeping order.
func SegmentsOn(segments []Segment, resourceID string, day time.Time) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Booking.ResourceID == resourceID && s.OnDay(day) {
			out = append(out, s)
		}
	}
	return out
}
