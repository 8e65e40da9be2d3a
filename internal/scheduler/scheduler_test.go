package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/occupancy"
)

var wednesday = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

// yesterday is a clock that never clips today's openings.
var yesterday = wednesday.AddDate(0, 0, -1)

func table(resource string, ranges ...[2]string) *occupancy.Table {
	var segs []booking.Segment
	for i, r := range ranges {
		b := &booking.Booking{
			ID:         resource + string(rune('0'+i)),
			ResourceID: resource,
			Date:       wednesday,
			StartTime:  r[0],
			EndTime:    r[1],
		}
		segs = append(segs, booking.SegmentOf(b)...)
	}
	return occupancy.Resolve(resource, wednesday, segs)
}

func mustNew(t *testing.T, start, end string) *Scheduler {
	t.Helper()
	s, err := New(start, end)
	if err != nil {
		t.Fatalf("New(%s, %s) failed: %v", start, end, err)
	}
	return s
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct{ start, end string }{
		{"25:00", "23:00"},
		{"08:00", "nope"},
		{"20:00", "08:00"},
		{"08:00", "08:00"},
	}
	for _, tt := range tests {
		if _, err := New(tt.start, tt.end); err == nil {
			t.Errorf("New(%s, %s) should fail", tt.start, tt.end)
		}
	}
}

func TestOpenings(t *testing.T) {
	s := mustNew(t, "08:00", "22:00")
	tbl := table("A", [2]string{"09:00", "10:30"}, [2]string{"12:00", "13:00"}, [2]string{"21:00", "23:00"})

	got := s.Openings(tbl, yesterday, 1)
	want := []string{"08:00 – 09:00", "10:30 – 12:00", "13:00 – 21:00"}
	if len(got) != len(want) {
		t.Fatalf("expected %d openings, got %d: %+v", len(want), len(got), got)
	}
	for i, o := range got {
		if o.Label() != want[i] {
			t.Errorf("opening %d = %s, want %s", i, o.Label(), want[i])
		}
		if o.ResourceID != "A" {
			t.Errorf("opening %d on %s, want A", i, o.ResourceID)
		}
	}
}

func TestOpenings_MinLength(t *testing.T) {
	s := mustNew(t, "08:00", "22:00")
	tbl := table("A", [2]string{"09:00", "10:30"}, [2]string{"12:00", "13:00"})

	got := s.Openings(tbl, yesterday, 4)
	if len(got) != 1 || got[0].Label() != "13:00 – 22:00" {
		t.Errorf("openings of 2h = %+v, want only 13:00 – 22:00", got)
	}
}

func TestOpenings_TodaySkipsThePast(t *testing.T) {
	s := mustNew(t, "08:00", "22:00")
	tbl := table("A")

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "on a slot boundary", now: wednesday.Add(14 * time.Hour), want: "14:00 – 22:00"},
		{name: "mid slot", now: wednesday.Add(14*time.Hour + 10*time.Minute), want: "14:30 – 22:00"},
		{name: "before opening", now: wednesday.Add(6 * time.Hour), want: "08:00 – 22:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Openings(tbl, tt.now, 1)
			if len(got) != 1 || got[0].Label() != tt.want {
				t.Errorf("openings = %+v, want %s", got, tt.want)
			}
		})
	}

	if got := s.Openings(tbl, wednesday.Add(22*time.Hour+45*time.Minute), 1); len(got) != 0 {
		t.Errorf("expected nothing after closing, got %+v", got)
	}
}

func TestOpenings_OvernightWrapBlocksMorning(t *testing.T) {
	s := mustNew(t, "00:00", "23:30")
	// 23:00 – 01:00 covers 00:00 and 00:30 on its own day too.
	tbl := table("A", [2]string{"23:00", "01:00"})

	got := s.Openings(tbl, yesterday, 1)
	if len(got) != 1 || got[0].Label() != "01:00 – 23:00" {
		t.Errorf("openings = %+v, want 01:00 – 23:00", got)
	}
}

func TestNextAvailableStart(t *testing.T) {
	s := mustNew(t, "08:00", "22:00")
	a := table("A", [2]string{"08:00", "12:00"})
	b := table("B", [2]string{"08:00", "09:00"}, [2]string{"09:30", "11:00"})

	o, err := s.NextAvailableStart([]*occupancy.Table{a, b}, yesterday, 2)
	if err != nil {
		t.Fatalf("NextAvailableStart failed: %v", err)
	}
	if o.ResourceID != "B" || o.Label() != "11:00 – 12:00" {
		t.Errorf("next = %s %s, want B 11:00 – 12:00", o.ResourceID, o.Label())
	}
	if !o.StartTime().Equal(wednesday.Add(11 * time.Hour)) {
		t.Errorf("start = %v", o.StartTime())
	}

	// Equal starts go to the first table.
	o, err = s.NextAvailableStart([]*occupancy.Table{table("C"), table("D")}, yesterday, 1)
	if err != nil || o.ResourceID != "C" {
		t.Errorf("tie = %+v, %v; want C", o, err)
	}
}

func TestNextAvailableStart_NoRoom(t *testing.T) {
	s := mustNew(t, "08:00", "10:00")
	full := table("A", [2]string{"08:00", "09:00"})

	_, err := s.NextAvailableStart([]*occupancy.Table{full}, yesterday, 3)
	if !errors.Is(err, ErrNoOpening) {
		t.Errorf("expected ErrNoOpening, got %v", err)
	}
}

func TestCanFit(t *testing.T) {
	s := mustNew(t, "08:00", "22:00")
	tests := []struct {
		start, n int
		want     bool
	}{
		{16, 2, true},
		{15, 2, false},
		{42, 2, true},
		{43, 2, false},
		{20, 0, false},
	}
	for _, tt := range tests {
		if got := s.CanFit(tt.start, tt.n); got != tt.want {
			t.Errorf("CanFit(%d, %d) = %t, want %t", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestSlotsFor(t *testing.T) {
	if n, err := SlotsFor(90 * time.Minute); err != nil || n != 3 {
		t.Errorf("SlotsFor(90m) = %d, %v", n, err)
	}
	for _, d := range []time.Duration{0, 45 * time.Minute, -time.Hour} {
		if _, err := SlotsFor(d); err == nil {
			t.Errorf("SlotsFor(%s) should fail", d)
		}
	}
}
