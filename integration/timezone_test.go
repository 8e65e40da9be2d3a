package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/filter"
)

func loadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s not available: %v", name, err)
	}
	return loc
}

func TestViewerTimezone(t *testing.T) {
	madrid := loadLocation(t, "Europe/Madrid")     // UTC+1 in mid March
	newYork := loadLocation(t, "America/New_York") // UTC-4 after 9 March

	eachStore(t, func(t *testing.T, store booking.Store) {
		id := createBooking(t, store, "A", "Ana", clock(12, 22, 30), clock(12, 23, 30))

		tests := []struct {
			name      string
			loc       *time.Location
			label     string
			overnight bool
			days      int
		}{
			{name: "utc", loc: time.UTC, label: "22:30 – 23:30", days: 1},
			{name: "madrid", loc: madrid, label: "23:30 – 00:30", overnight: true, days: 2},
			{name: "new york", loc: newYork, label: "18:30 – 19:30", days: 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rng := dateutil.DateRange{Start: day(12, tt.loc), End: day(13, tt.loc)}
				s := openSession(t, store, tt.loc, rng)

				b := s.Find(id)
				if b == nil {
					t.Fatal("booking not loaded")
				}
				if b.Label() != tt.label {
					t.Errorf("label = %q, want %q", b.Label(), tt.label)
				}
				if b.IsOvernight() != tt.overnight {
					t.Errorf("overnight = %t, want %t", b.IsOvernight(), tt.overnight)
				}
				if !dateutil.SameDay(b.Date, day(12, tt.loc)) {
					t.Errorf("date = %v, want the 12th", b.Date)
				}
				if got := len(s.Segments(filter.Default(), day(12, tt.loc))); got != tt.days {
					t.Errorf("segments = %d, want %d", got, tt.days)
				}
			})
		}
	})
}

func TestDragInViewerTimezone(t *testing.T) {
	madrid := loadLocation(t, "Europe/Madrid")

	eachStore(t, func(t *testing.T, store booking.Store) {
		ctx := context.Background()
		id := createBooking(t, store, "A", "Ana", clock(12, 8, 0), clock(12, 9, 0))

		s := openSession(t, store, madrid, dateutil.DateRange{Start: day(12, madrid), End: day(12, madrid)})
		b := s.Find(id)
		if b == nil || b.StartTime != "09:00" {
			t.Fatalf("expected the booking at 09:00 local, got %+v", b)
		}

		// 10:00 in Madrid is 09:00 UTC.
		a, err := dragdrop.Compute(b, day(12, madrid), dragdrop.Target{ResourceID: "B", Slot: 20, Day: day(12, madrid)})
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		if err := s.Commit(ctx, a); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		rec, err := store.GetBooking(ctx, id)
		if err != nil {
			t.Fatalf("GetBooking failed: %v", err)
		}
		if !rec.Start.Equal(clock(12, 9, 0)) || !rec.End.Equal(clock(12, 10, 0)) {
			t.Errorf("stored range = %v - %v, want 09:00 - 10:00 UTC", rec.Start.UTC(), rec.End.UTC())
		}
		if moved := s.Find(id); moved.StartTime != "10:00" || moved.ResourceID != "B" {
			t.Errorf("session booking = %s %s", moved.ResourceID, moved.StartTime)
		}
	})
}
