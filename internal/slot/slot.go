// Package slot maps wall-clock "HH:MM" times onto the 48 half-hour slots of a day.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot errors.
var (
	ErrMalformedTime = errors.New("malformed time")
	ErrInvalidSlot   = errors.New("slot index out of range")
)

const (
	// PerDay is the number of half-hour slots in a calendar day.
	PerDay = 48
	// Minutes is the length of one slot.
	Minutes = 30
	// Wrapped marks the open end of a range that runs past midnight.
	// It is only ever an interval bound, never a stored slot.
	Wrapped = PerDay
)

// Length is the duration of a single slot.
const Length = Minutes * time.Minute

// Index converts "HH:MM" to its slot index in [0, 47].
// Minutes 00-29 map to the first half of the hour, 30-59 to the second.
func Index(t string) (int, error) {
	h, m, err := parse(t)
	if err != nil {
		return 0, err
	}
	s := h * 2
	if m >= Minutes {
		s++
	}
	return s, nil
}

// OnGrid reports whether t is a valid time that sits exactly on a slot boundary.
func OnGrid(t string) error {
	_, m, err := parse(t)
	if err != nil {
		return err
	}
	if m%Minutes != 0 {
		return fmt.Errorf("%w: %q is not on the half-hour grid", ErrMalformedTime, t)
	}
	return nil
}

func parse(t string) (hours, minutes int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(t), ":")
	if !ok || hs == "" || ms == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, t)
	}
	if len(hs) > 2 || !digits(hs) {
		return 0, 0, fmt.Errorf("%w: hour in %q", ErrMalformedTime, t)
	}
	if len(ms) != 2 || !digits(ms) {
		return 0, 0, fmt.Errorf("%w: minute in %q", ErrMalformedTime, t)
	}
	hours, err = strconv.Atoi(hs)
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q", ErrMalformedTime, t)
	}
	minutes, err = strconv.Atoi(ms)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q", ErrMalformedTime, t)
	}
	return hours, minutes, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ToTime converts a slot index back to "HH:MM".
// The index is reduced modulo 48 first, so 48 is "00:00" and -1 is "23:30".
func ToTime(s int) string {
	s = ((s % PerDay) + PerDay) % PerDay
	return fmt.Sprintf("%02d:%02d", s/2, (s%2)*Minutes)
}

// Duration returns the number of slots between start and end.
// An end at or before the start is taken to be on the following day.
// Ranges longer than 24 hours cannot be expressed and are under-counted.
func Duration(start, end string) (int, error) {
	s, err := Index(start)
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	e, err := Index(end)
	if err != nil {
		return 0, fmt.Errorf("end: %w", err)
	}
	if e <= s {
		e += PerDay
	}
	return e - s, nil
}

// Valid reports whether s is a storable slot index.
func Valid(s int) bool {
	return s >= 0 && s < PerDay
}

// Combine returns the local instant at which slot s begins on day.
// Wall-clock fields are used so DST days keep their labelled times.
func Combine(day time.Time, s int) (time.Time, error) {
	if !Valid(s) {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidSlot, s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), s/2, (s%2)*Minutes, 0, 0, day.Location()), nil
}

// Of returns the slot containing the wall-clock time of t.
func Of(t time.Time) int {
	s := t.Hour() * 2
	if t.Minute() >= Minutes {
		s++
	}
	return s
}

// Label formats a range the way booking cards display it.
func Label(start, end string) string {
	return start + " – " + end
}
