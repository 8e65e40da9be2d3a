package slot

import (
	"errors"
	"testing"
	"time"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "half past midnight", input: "00:30", want: 1},
		{name: "eleven", input: "11:00", want: 22},
		{name: "two pm", input: "14:00", want: 28},
		{name: "half past three", input: "15:30", want: 31},
		{name: "last slot", input: "23:30", want: 47},
		{name: "off grid rounds down", input: "10:45", want: 21},
		{name: "single digit hour", input: "9:00", want: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Index(tt.input)
			if err != nil {
				t.Fatalf("Index(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Index(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIndexMalformed(t *testing.T) {
	inputs := []string{"", "24:00", "12:60", "-1:00", "ab:cd", "1200", "12:", "+9:00", "9:0", "10:+5", "009:00", "12:000"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if _, err := Index(in); !errors.Is(err, ErrMalformedTime) {
				t.Errorf("Index(%q) error = %v, want ErrMalformedTime", in, err)
			}
		})
	}
}

func TestOnGrid(t *testing.T) {
	if err := OnGrid("10:30"); err != nil {
		t.Errorf("OnGrid(10:30) = %v, want nil", err)
	}
	if err := OnGrid("10:15"); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("OnGrid(10:15) = %v, want ErrMalformedTime", err)
	}
}

func TestToTime(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{1, "00:30"},
		{32, "16:00"},
		{47, "23:30"},
		{48, "00:00"},
		{50, "01:00"},
		{-1, "23:30"},
	}

	for _, tt := range tests {
		if got := ToTime(tt.input); got != tt.want {
			t.Errorf("ToTime(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRoundTripOnGrid(t *testing.T) {
	for s := 0; s < PerDay; s++ {
		str := ToTime(s)
		got, err := Index(str)
		if err != nil {
			t.Fatalf("Index(%q): %v", str, err)
		}
		if ToTime(got) != str {
			t.Errorf("ToTime(Index(%q)) = %q", str, ToTime(got))
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{name: "ninety minutes", start: "14:00", end: "15:30", want: 3},
		{name: "one hour", start: "10:00", end: "11:00", want: 2},
		{name: "crosses midnight", start: "23:00", end: "00:30", want: 3},
		{name: "ends at midnight", start: "22:00", end: "00:00", want: 4},
		{name: "equal wraps to full day", start: "08:00", end: "08:00", want: 48},
		{name: "end before start", start: "20:00", end: "02:00", want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Duration(tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Duration(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
			if got <= 0 {
				t.Errorf("Duration must be positive, got %d", got)
			}
		})
	}
}

func TestDurationMalformed(t *testing.T) {
	if _, err := Duration("25:00", "10:00"); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime, got %v", err)
	}
	if _, err := Duration("10:00", "xx"); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	got, err := Combine(day, 47)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}

	if _, err := Combine(day, 48); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Combine(48) error = %v, want ErrInvalidSlot", err)
	}
	if _, err := Combine(day, -1); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Combine(-1) error = %v, want ErrInvalidSlot", err)
	}
}

func TestOf(t *testing.T) {
	tm := time.Date(2025, 3, 10, 16, 45, 0, 0, time.UTC)
	if got := Of(tm); got != 33 {
		t.Errorf("Of(16:45) = %d, want 33", got)
	}
}
