package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/filter"
)

func (a *App) listCmd() *cobra.Command {
	var (
		from      string
		to        string
		courts    []string
		cancelled bool
		details   bool
	)

	cmd := &cobra.Command{
		Use:   "list [filter...]",
		Short: "List bookings in a date range",
		Long: `List bookings within a date range, grouped by day.

Dates accept YYYY-MM-DD, today, tomorrow, yesterday or a weekday name.
If no dates are specified, lists today's bookings.
If only --from is specified, lists that single day.

Remaining arguments are a filter in the calendar's prompt syntax:
  court:A,B  status:confirmed,pending|all  type:lesson  hours:18:00-22:00
  date:today|week|month|2025-03-01..2025-03-31  mine  free text`,
		Example: `  courtside list
  courtside list --from=monday --to=sunday court:1
  courtside list --from=2025-03-12 status:all smith`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			set, err := filter.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(courts) > 0 {
				set.Courts = courts
			}
			if cancelled && !hasStatus(set, booking.StatusCancelled) {
				set = set.ToggleStatus(booking.StatusCancelled)
			}

			rng, err := a.parseRange(from, to)
			if err != nil {
				return err
			}
			session, err := a.openSession(cmd.Context(), rng)
			if err != nil {
				return err
			}

			bookings := session.Visible(set, a.now())
			w := cmd.OutOrStdout()
			if len(bookings) == 0 {
				fmt.Fprintln(w, "No bookings found in the specified date range.")
				return nil
			}
			stats := PrintBookings(w, a.config, bookings, PrintOpts{Verbose: details})
			fmt.Fprintln(w)
			PrintStats(w, a.config, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (defaults to today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, inclusive (defaults to --from)")
	cmd.Flags().StringSliceVar(&courts, "court", nil, "Only these court IDs (repeatable)")
	cmd.Flags().BoolVar(&cancelled, "cancelled", false, "Include cancelled bookings")
	cmd.Flags().BoolVar(&details, "details", false, "Show type, payment and notes")

	return cmd
}

// parseRange resolves --from/--to against today in the club's time zone.
func (a *App) parseRange(from, to string) (dateutil.DateRange, error) {
	loc, err := a.location()
	if err != nil {
		return dateutil.DateRange{}, err
	}
	today := a.now().In(loc)

	start, err := dateutil.ParseRelativeDate(from, today)
	if err != nil {
		return dateutil.DateRange{}, fmt.Errorf("--from: %w", err)
	}
	end := start
	if to != "" {
		if end, err = dateutil.ParseRelativeDate(to, today); err != nil {
			return dateutil.DateRange{}, fmt.Errorf("--to: %w", err)
		}
	}
	if end.Before(start) {
		return dateutil.DateRange{}, dateutil.ErrEndDateBeforeStart
	}
	return dateutil.DateRange{Start: start, End: end}, nil
}

// openSession loads rng into a calendar session.
func (a *App) openSession(ctx context.Context, rng dateutil.DateRange) (*calendar.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := a.location()
	if err != nil {
		return nil, err
	}
	session := calendar.NewSession(a.store, loc,
		calendar.WithResources(a.config.CourtIDs()),
		calendar.WithOperator(a.config.Club.Operator),
		calendar.WithLogger(a.logger),
	)
	if err := session.Load(ctx, rng); err != nil {
		return nil, fmt.Errorf("loading bookings: %w", err)
	}
	return session, nil
}

func hasStatus(set filter.Set, st booking.Status) bool {
	if len(set.Statuses) == 0 {
		return true
	}
	for _, s := range set.Statuses {
		if s == st {
			return true
		}
	}
	return false
}
