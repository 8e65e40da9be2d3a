package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/llm"
	"github.com/javiermolinar/courtside/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		peak    string
		insight bool
	)

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Summarize how full the courts were in a week",
		Long: `Show per-court utilization for the week containing the given date.

Utilization counts confirmed, pending and completed bookings inside the
configured day_start..day_end window. --peak sets the busy window that
is reported separately. --insight asks the configured LLM for a short
commentary.`,
		Example: `  courtside week
  courtside week last-week --peak=17:00-21:00
  courtside week --insight`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			date := ""
			if len(args) > 0 {
				date = args[0]
			}
			rng, err := a.parseRange(date, "")
			if err != nil {
				return err
			}
			loc, err := a.location()
			if err != nil {
				return err
			}

			peakStart, peakEnd, ok := strings.Cut(peak, "-")
			if peak != "" && !ok {
				return fmt.Errorf("--peak must look like 18:00-22:00")
			}

			opts := summary.BuildWeekSummaryOptions{
				WeekStart: rng.Start,
				WeekSummaryOptions: summary.WeekSummaryOptions{
					DayStart:  a.config.Schedule.DayStart,
					DayEnd:    a.config.Schedule.DayEnd,
					PeakStart: strings.TrimSpace(peakStart),
					PeakEnd:   strings.TrimSpace(peakEnd),
				},
				IncludeInsight: insight,
				CourtName:      a.config.CourtName,
			}
			if insight {
				client, err := llm.NewClient(ctx, a.config.LLM)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				opts.Client = client
			}

			session := calendar.NewSession(a.store, loc,
				calendar.WithResources(a.config.CourtIDs()),
				calendar.WithOperator(a.config.Club.Operator),
				calendar.WithLogger(a.logger))
			s, err := summary.BuildWeekSummary(ctx, session, opts)
			if err != nil {
				return err
			}

			printWeekSummary(cmd.OutOrStdout(), a.config, s)
			return nil
		},
	}

	cmd.Flags().StringVar(&peak, "peak", "", "Peak window as HH:MM-HH:MM (default 18:00-22:00)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Add an LLM commentary")
	return cmd
}

func printWeekSummary(w io.Writer, cfg *config.Config, s *summary.WeekSummary) {
	fmt.Fprintf(w, "%s\n\n", formatHeader(fmt.Sprintf("Week %s – %s", s.Start.Format("2 Jan"), s.End.Format("2 Jan 2006"))))

	if s.TotalSlots() == 0 {
		fmt.Fprintln(w, "No bookings this week.")
		return
	}

	for _, c := range s.Courts {
		fmt.Fprintf(w, "%-10s %3d bookings  %8s  %3.0f%% booked  %3.0f%% of peak\n",
			cfg.CourtName(c.ResourceID), c.Bookings, FormatSlots(c.Slots),
			100*s.Utilization(c), 100*s.PeakUtilization(c))
	}

	fmt.Fprintln(w)
	for d, n := range s.DaySlots {
		day := s.Start.AddDate(0, 0, d).Format("Mon")
		bar := strings.Repeat("█", (n+1)/2)
		fmt.Fprintf(w, "%s %-8s %s\n", day, FormatSlots(n), formatMuted(bar))
	}
	fmt.Fprintln(w, formatMuted(fmt.Sprintf("\nPeak window %s-%s", s.PeakStart, s.PeakEnd)))

	if s.Insight != "" {
		fmt.Fprintf(w, "\n%s\n", s.Insight)
	}
}
