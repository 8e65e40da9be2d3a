package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/llm"
)

// askRetries is how many times an invalid model answer is retried.
const askRetries = 2

func (a *App) askCmd() *cobra.Command {
	var (
		from string
		to   string
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question and list the matching bookings",
		Long: `Turn a plain-language question into a booking filter using the
configured LLM provider, print the filter, and list what it matches.

When the question names a day or week, that window is listed; otherwise
--from/--to (default: today) are used.`,
		Example: `  courtside ask "which lessons are pending this week?"
  courtside ask "court 2 after 8pm" --from=friday`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			loc, err := a.location()
			if err != nil {
				return err
			}

			client, err := llm.NewClient(ctx, a.config.LLM)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			rng, err := a.parseRange(from, to)
			if err != nil {
				return err
			}
			// Known types come from what is around the requested days.
			session, err := a.openSession(ctx, rng)
			if err != nil {
				return err
			}

			req := llm.FilterRequest{
				Question: strings.Join(args, " "),
				Now:      a.now().In(loc),
				Operator: a.config.Club.Operator,
				Courts:   session.Resources(),
				Types:    knownTypes(session.Bookings()),
				Compact:  llm.IsLocal(a.config.LLM.Provider),
			}
			result, err := llm.NewTranslator(client, askRetries).Translate(ctx, req)
			if err != nil {
				return fmt.Errorf("asking: %w", err)
			}
			a.logger.Debug().Int("attempts", result.Attempts).Str("filter", result.Set.String()).Msg("question translated")

			w := cmd.OutOrStdout()
			if result.Explanation != "" {
				fmt.Fprintln(w, formatMuted(result.Explanation))
			}
			fmt.Fprintf(w, "filter: %s\n\n", orNone(result.Set.String()))

			if wf, wt, ok := result.Set.Window.Range(req.Now); ok && !wf.IsZero() && !wt.IsZero() {
				wrng := dateutil.DateRange{Start: localDay(wf, loc), End: localDay(wt, loc)}
				if !session.Covers(wrng) {
					if err := session.Load(ctx, wrng); err != nil {
						return fmt.Errorf("loading bookings: %w", err)
					}
				}
			}

			bookings := session.Visible(result.Set, req.Now)
			if len(bookings) == 0 {
				fmt.Fprintln(w, "No bookings match.")
				return nil
			}
			stats := PrintBookings(w, a.config, bookings, PrintOpts{})
			fmt.Fprintln(w)
			PrintStats(w, a.config, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day to search (defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day to search (defaults to --from)")
	return cmd
}

func knownTypes(bookings []*booking.Booking) []string {
	seen := make(map[string]bool)
	var types []string
	for _, b := range bookings {
		t := strings.ToLower(strings.TrimSpace(b.Type))
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// localDay is t's calendar date as midnight in loc.
func localDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
