package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Parse errors.
var (
	ErrUnknownStatus = errors.New("unknown booking status")
	ErrUnknownWindow = errors.New("unknown date window")
	ErrBadHours      = errors.New("hours must look like HH:MM-HH:MM")
)

// Parse reads the compact query form used by the prompt and CLI flags, on
// top of Default. Words without a key become free text.
//
//	court:A,B status:confirmed,pending type:lesson hours:18:00-22:00
//	date:today|week|month|all|2025-03-01..2025-03-07 mine smith
//
// status:all clears the status selection.
func Parse(query string) (Set, error) {
	set := Default()
	var text []string

	for _, tok := range strings.Fields(query) {
		key, value, hasKey := strings.Cut(tok, ":")
		if !hasKey {
			if strings.EqualFold(tok, "mine") {
				set.MineOnly = true
				continue
			}
			text = append(text, tok)
			continue
		}

		switch strings.ToLower(key) {
		case "court", "courts":
			set.Courts = splitList(value)
		case "status", "statuses":
			statuses, err := parseStatuses(value)
			if err != nil {
				return Set{}, err
			}
			set.Statuses = statuses
		case "type", "types":
			set.Types = splitList(value)
		case "hours":
			r, err := parseHours(value)
			if err != nil {
				return Set{}, err
			}
			set.Hours = r
		case "date":
			w, err := parseWindow(value)
			if err != nil {
				return Set{}, err
			}
			set.Window = w
		default:
			text = append(text, tok)
		}
	}

	set.Text = strings.Join(text, " ")
	return set, nil
}

// String renders the parts of the set that differ from Default, in the form
// Parse accepts.
func (s Set) String() string {
	def := Default()
	var parts []string
	if len(s.Courts) > 0 {
		parts = append(parts, "court:"+strings.Join(s.Courts, ","))
	}
	if !sameStatuses(s.Statuses, def.Statuses) {
		if len(s.Statuses) == 0 {
			parts = append(parts, "status:all")
		} else {
			names := make([]string, len(s.Statuses))
			for i, st := range s.Statuses {
				names[i] = string(st)
			}
			parts = append(parts, "status:"+strings.Join(names, ","))
		}
	}
	if len(s.Types) > 0 {
		parts = append(parts, "type:"+strings.Join(s.Types, ","))
	}
	if !s.Hours.IsZero() {
		parts = append(parts, "hours:"+s.Hours.From+"-"+s.Hours.To)
	}
	if !s.Window.isDefault() {
		if s.Window.Preset == PresetCustom {
			parts = append(parts, "date:"+formatDay(s.Window.From)+".."+formatDay(s.Window.To))
		} else {
			parts = append(parts, "date:"+string(s.Window.Preset))
		}
	}
	if s.MineOnly {
		parts = append(parts, "mine")
	}
	if t := strings.TrimSpace(s.Text); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseStatuses(v string) ([]booking.Status, error) {
	if strings.EqualFold(v, "all") || v == "*" {
		return nil, nil
	}
	var out []booking.Status
	for _, item := range splitList(v) {
		st := booking.Status(strings.ToLower(item))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, item)
		}
		if !slices.Contains(out, st) {
			out = append(out, st)
		}
	}
	return out, nil
}

func parseHours(v string) (TimeRange, error) {
	from, to, ok := strings.Cut(v, "-")
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrBadHours, v)
	}
	for _, t := range []string{from, to} {
		if t == "" {
			continue
		}
		if _, err := slot.Index(t); err != nil {
			return TimeRange{}, fmt.Errorf("%w: %w", ErrBadHours, err)
		}
	}
	return TimeRange{From: from, To: to}, nil
}

func parseWindow(v string) (DateWindow, error) {
	switch p := Preset(strings.ToLower(v)); p {
	case PresetAll, PresetToday, PresetWeek, PresetMonth:
		return DateWindow{Preset: p}, nil
	}

	fromStr, toStr, isRange := strings.Cut(v, "..")
	if !isRange {
		toStr = fromStr
	}
	w := DateWindow{Preset: PresetCustom}
	if fromStr != "" {
		from, err := dateutil.ParseDate(fromStr)
		if err != nil {
			return DateWindow{}, fmt.Errorf("%w: %w", ErrUnknownWindow, err)
		}
		w.From = from
	}
	if toStr != "" {
		to, err := dateutil.ParseDate(toStr)
		if err != nil {
			return DateWindow{}, fmt.Errorf("%w: %w", ErrUnknownWindow, err)
		}
		w.To = to
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return DateWindow{}, dateutil.ErrEndDateBeforeStart
	}
	return w, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// StatusesOf validates a list of status names. "all" clears the selection.
func StatusesOf(names []string) ([]booking.Status, error) {
	return parseStatuses(strings.Join(names, ","))
}

// HoursOf validates a time-of-day window. Both bounds may be empty.
func HoursOf(from, to string) (TimeRange, error) {
	if from == "" && to == "" {
		return TimeRange{}, nil
	}
	return parseHours(from + "-" + to)
}

// WindowOf reads a preset name or a YYYY-MM-DD..YYYY-MM-DD range.
func WindowOf(v string) (DateWindow, error) {
	return parseWindow(v)
}
