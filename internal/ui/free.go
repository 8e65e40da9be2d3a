package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/scheduler"
)

func (a *App) freeCmd() *cobra.Command {
	var (
		length time.Duration
		courts []string
		next   bool
	)

	cmd := &cobra.Command{
		Use:   "free [date]",
		Short: "Show when courts are free",
		Long: `List the free stretches of each court between day_start and day_end.

Only stretches at least --length long are shown. On today, time that
has already passed is left out. --next prints just the earliest start
across all courts.`,
		Example: `  courtside free
  courtside free tomorrow --length=1h30m
  courtside free --next --court=A --court=B`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			n, err := scheduler.SlotsFor(length)
			if err != nil {
				return err
			}
			sched, err := scheduler.New(a.config.Schedule.DayStart, a.config.Schedule.DayEnd)
			if err != nil {
				return fmt.Errorf("opening hours: %w", err)
			}

			date := ""
			if len(args) > 0 {
				date = args[0]
			}
			rng, err := a.parseRange(date, "")
			if err != nil {
				return err
			}
			session, err := a.openSession(cmd.Context(), rng)
			if err != nil {
				return err
			}

			resources := session.Resources()
			if len(courts) > 0 {
				resources = courts
			}
			segs := session.Segments(filter.Set{Statuses: blockingStatuses}, a.now())
			dv := calendar.BuildDay(resources, rng.Start, segs)
			now := a.now().In(session.Location())

			w := cmd.OutOrStdout()
			if next {
				o, err := sched.NextAvailableStart(dv.Tables, now, n)
				if errors.Is(err, scheduler.ErrNoOpening) {
					fmt.Fprintf(w, "No court is free for %s on %s.\n", FormatSlots(n), rng.Start.Format("Mon 2 Jan"))
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s %s %s\n", a.config.CourtName(o.ResourceID), o.Day.Format("Mon 2 Jan"), o.Label())
				return nil
			}

			fmt.Fprintf(w, "%s\n\n", formatHeader(rng.Start.Format("Monday, 2 January 2006")))
			for _, tbl := range dv.Tables {
				openings := sched.Openings(tbl, now, n)
				if len(openings) == 0 {
					fmt.Fprintf(w, "%-10s %s\n", a.config.CourtName(tbl.ResourceID), formatMuted("full"))
					continue
				}
				for i, o := range openings {
					name := ""
					if i == 0 {
						name = a.config.CourtName(tbl.ResourceID)
					}
					fmt.Fprintf(w, "%-10s %s  %s\n", name, o.Label(), formatMuted("("+FormatSlots(o.Slots)+")"))
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&length, "length", time.Hour, "Minimum free stretch, in half hours")
	cmd.Flags().StringSliceVar(&courts, "court", nil, "Only these courts")
	cmd.Flags().BoolVar(&next, "next", false, "Print only the earliest free start")
	return cmd
}
