package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/javiermolinar/courtside/internal/booking"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	DisableColor()
	t.Cleanup(func() { color.NoColor = prev })
}

func testBooking(id, court, start, end string, st booking.Status) *booking.Booking {
	return &booking.Booking{
		ID:         id,
		ResourceID: court,
		Date:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:  start,
		EndTime:    end,
		Details:    booking.Details{Status: st, CustomerName: "Cust " + id, Price: 10},
	}
}

func TestFormatSlots(t *testing.T) {
	tests := []struct {
		slots int
		want  string
	}{
		{0, "0m"},
		{1, "30m"},
		{2, "1h"},
		{3, "1h 30m"},
		{48, "24h"},
	}
	for _, tt := range tests {
		if got := FormatSlots(tt.slots); got != tt.want {
			t.Errorf("FormatSlots(%d) = %q, want %q", tt.slots, got, tt.want)
		}
	}
}

func TestAccumulateStats(t *testing.T) {
	var stats Stats
	AccumulateStats(&stats, testBooking("1", "A", "18:00", "19:30", booking.StatusConfirmed))
	AccumulateStats(&stats, testBooking("2", "B", "18:00", "19:00", booking.StatusPending))
	AccumulateStats(&stats, testBooking("3", "B", "19:00", "21:00", booking.StatusCancelled))
	AccumulateStats(&stats, testBooking("4", "B", "23:00", "00:30", booking.StatusConfirmed))

	if stats.Bookings != 4 || stats.Cancelled != 1 {
		t.Errorf("bookings = %d, cancelled = %d", stats.Bookings, stats.Cancelled)
	}
	if stats.Slots != 8 {
		t.Errorf("slots = %d, want 8", stats.Slots)
	}
	if stats.Revenue != 30 {
		t.Errorf("revenue = %v, want 30", stats.Revenue)
	}
	if court, slots := stats.BusiestCourt(); court != "B" || slots != 5 {
		t.Errorf("busiest = %s (%d), want B (5)", court, slots)
	}
}

func TestBusiestCourt_TiesPickLowestID(t *testing.T) {
	stats := Stats{PerCourt: map[string]int{"C": 4, "A": 4, "B": 2}}
	if court, _ := stats.BusiestCourt(); court != "A" {
		t.Errorf("busiest = %s, want A", court)
	}
}

func TestPrintBookingRow(t *testing.T) {
	noColor(t)
	cfg := testConfig()

	tests := []struct {
		name    string
		b       *booking.Booking
		opts    PrintOpts
		want    []string
		notWant []string
	}{
		{
			name: "confirmed",
			b:    testBooking("1", "A", "18:00", "19:30", booking.StatusConfirmed),
			want: []string{"●", "18:00 – 19:30", "Court A", "Cust 1"},
		},
		{
			name: "cancelled",
			b:    testBooking("2", "B", "18:00", "19:00", booking.StatusCancelled),
			want: []string{"✗", "Court B"},
		},
		{
			name:    "long name is truncated",
			b:       &booking.Booking{ID: "x", ResourceID: "A", StartTime: "09:00", EndTime: "10:00", Details: booking.Details{Status: booking.StatusPending, CustomerName: "Maximiliano Fernández de la Vega"}},
			opts:    PrintOpts{MaxNameWidth: 12},
			want:    []string{"○", "Maximilia..."},
			notWant: []string{"Vega"},
		},
		{
			name: "verbose details",
			b: &booking.Booking{ID: "y", ResourceID: "A", StartTime: "09:00", EndTime: "10:00", Details: booking.Details{
				Status: booking.StatusConfirmed, Type: "lesson", PaymentStatus: "paid", Price: 30, Notes: "bring balls",
			}},
			opts: PrintOpts{Verbose: true, MaxNameWidth: 20},
			want: []string{"lesson · paid · 30.00", "bring balls", "lesson"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintBookingRow(&buf, cfg, tt.b, tt.opts, tt.opts.nameWidth(30))
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("row missing %q: %q", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("row should not contain %q: %q", w, out)
				}
			}
		})
	}
}

func TestNewDraft(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		overnight bool
		wantErr   bool
	}{
		{name: "same day", start: "18:00", end: "19:30"},
		{name: "through midnight", start: "23:00", end: "00:30", overnight: true},
		{name: "ends at midnight", start: "22:00", end: "00:00", overnight: true},
		{name: "full day", start: "08:00", end: "08:00", overnight: true},
		{name: "bad start", start: "25:00", end: "10:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newDraft("A", day, tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newDraft failed: %v", err)
			}
			if d.ID == "" {
				t.Error("expected an ID")
			}
			if d.Overnight != tt.overnight {
				t.Errorf("overnight = %t, want %t", d.Overnight, tt.overnight)
			}
			if _, err := d.Normalize(time.UTC); err != nil {
				t.Errorf("Normalize failed: %v", err)
			}
		})
	}
}
