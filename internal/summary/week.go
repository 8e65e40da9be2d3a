// Package summary provides weekly court utilization summaries.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/llm"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Default peak window when none is configured.
const (
	DefaultPeakStart = "18:00"
	DefaultPeakEnd   = "22:00"
)

// countedStatuses are the bookings that occupy a court.
var countedStatuses = []booking.Status{booking.StatusConfirmed, booking.StatusPending, booking.StatusCompleted}

// CourtStats is one court's week.
type CourtStats struct {
	ResourceID string
	Bookings   int // distinct bookings touching the week
	Slots      int // booked slots inside opening hours
	PeakSlots  int // booked slots inside the peak window
	Overnight  int // bookings running past midnight
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Start    time.Time
	End      time.Time
	Courts   []CourtStats
	DaySlots [7]int // booked slots per day, Monday first

	// Bookable slots per court over the week.
	OpenSlots     int
	PeakOpenSlots int

	PeakStart string
	PeakEnd   string
	Insight   string
}

// WeekSummaryOptions configures week summary statistics.
type WeekSummaryOptions struct {
	DayStart  string
	DayEnd    string
	PeakStart string
	PeakEnd   string
}

// BuildWeekSummaryOptions configures the session-backed summary builder.
type BuildWeekSummaryOptions struct {
	WeekStart time.Time
	WeekSummaryOptions
	IncludeInsight bool
	Client         llm.Client
	CourtName      func(id string) string
}

// Utilization returns the share of open time c was booked.
func (s *WeekSummary) Utilization(c CourtStats) float64 {
	if s.OpenSlots == 0 {
		return 0
	}
	return float64(c.Slots) / float64(s.OpenSlots)
}

// PeakUtilization returns the share of the peak window c was booked.
func (s *WeekSummary) PeakUtilization(c CourtStats) float64 {
	if s.PeakOpenSlots == 0 {
		return 0
	}
	return float64(c.PeakSlots) / float64(s.PeakOpenSlots)
}

// TotalSlots returns booked slots across every court.
func (s *WeekSummary) TotalSlots() int {
	n := 0
	for _, c := range s.Courts {
		n += c.Slots
	}
	return n
}

// window is a [first, last) slot range.
type window struct{ first, last int }

func (w window) contains(s int) bool { return s >= w.first && s < w.last }

func (w window) size() int { return max(w.last-w.first, 0) }

func parseWindow(start, end string, def window) (window, error) {
	w := def
	if start != "" {
		s, err := slot.Index(start)
		if err != nil {
			return window{}, err
		}
		w.first = s
	}
	if end != "" {
		s, err := slot.Index(end)
		if err != nil {
			return window{}, err
		}
		w.last = s
	}
	if w.last <= w.first {
		return window{}, fmt.Errorf("window %s-%s is empty", slot.ToTime(w.first), slot.ToTime(w.last))
	}
	return w, nil
}

// SummarizeWeek builds the summary of the ISO week containing anchor.
// Segments are expected to be filtered already.
func SummarizeWeek(anchor time.Time, resources []string, segments []booking.Segment, opts WeekSummaryOptions) (*WeekSummary, error) {
	open, err := parseWindow(opts.DayStart, opts.DayEnd, window{0, slot.PerDay})
	if err != nil {
		return nil, fmt.Errorf("opening hours: %w", err)
	}
	if opts.PeakStart == "" && opts.PeakEnd == "" {
		opts.PeakStart, opts.PeakEnd = DefaultPeakStart, DefaultPeakEnd
	}
	peak, err := parseWindow(opts.PeakStart, opts.PeakEnd, window{0, slot.PerDay})
	if err != nil {
		return nil, fmt.Errorf("peak hours: %w", err)
	}
	peak = window{max(peak.first, open.first), min(peak.last, open.last)}

	start, end := dateutil.WeekRange(anchor)
	s := &WeekSummary{
		Start:         start,
		End:           end,
		OpenSlots:     7 * open.size(),
		PeakOpenSlots: 7 * peak.size(),
		PeakStart:     opts.PeakStart,
		PeakEnd:       opts.PeakEnd,
	}

	for _, r := range resources {
		stats := CourtStats{ResourceID: r}
		seen := make(map[string]bool)
		week := calendar.BuildWeek(r, anchor, segments)
		for d, tbl := range week.Tables {
			for i := open.first; i < open.last; i++ {
				b := tbl.Occupant(i)
				if b == nil {
					continue
				}
				stats.Slots++
				s.DaySlots[d]++
				if peak.contains(i) {
					stats.PeakSlots++
				}
			}
			for _, a := range tbl.Anchors() {
				if seen[a.Booking.ID] {
					continue
				}
				seen[a.Booking.ID] = true
				stats.Bookings++
				if a.Booking.IsOvernight() {
					stats.Overnight++
				}
			}
		}
		s.Courts = append(s.Courts, stats)
	}
	return s, nil
}

// Digest renders the summary as plain text for the insight prompt.
func (s *WeekSummary) Digest(courtName func(string) string) string {
	if s.TotalSlots() == 0 {
		return ""
	}
	if courtName == nil {
		courtName = func(id string) string { return id }
	}

	var sb strings.Builder
	for _, c := range s.Courts {
		fmt.Fprintf(&sb, "%s: %d bookings, %.0f%% booked, %.0f%% of peak, %d overnight\n",
			courtName(c.ResourceID), c.Bookings, 100*s.Utilization(c), 100*s.PeakUtilization(c), c.Overnight)
	}
	sb.WriteString("\n")
	for d, n := range s.DaySlots {
		fmt.Fprintf(&sb, "%s: %d booked half hours\n", s.Start.AddDate(0, 0, d).Format("Mon"), n)
	}
	return sb.String()
}

// BuildWeekSummary loads the requested week into session and summarizes it,
// optionally adding the model's insight.
func BuildWeekSummary(ctx context.Context, session *calendar.Session, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = time.Now().In(session.Location())
	}

	start, end := dateutil.WeekRange(weekStart)
	rng := dateutil.DateRange{Start: start, End: end}
	if !session.Covers(rng) {
		if err := session.Load(ctx, rng); err != nil {
			return nil, fmt.Errorf("fetching bookings: %w", err)
		}
	}

	segments := session.Segments(filter.Set{Statuses: countedStatuses}, start)
	summary, err := SummarizeWeek(start, session.Resources(), segments, opts.WeekSummaryOptions)
	if err != nil {
		return nil, err
	}

	if opts.IncludeInsight && summary.TotalSlots() > 0 {
		if opts.Client == nil {
			return nil, errors.New("an LLM client is required for insight")
		}
		evaluator := llm.NewEvaluatorWithOpts(opts.Client, llm.EvalOpts{
			PeakStart: summary.PeakStart,
			PeakEnd:   summary.PeakEnd,
		})
		insight, err := evaluator.EvaluateWeek(ctx, start, end, summary.Digest(opts.CourtName))
		if err != nil {
			return nil, err
		}
		summary.Insight = insight
	}

	return summary, nil
}
