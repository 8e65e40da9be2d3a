package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/slot"
)

func (a *App) dayCmd() *cobra.Command {
	var (
		full     bool
		colWidth int
	)

	cmd := &cobra.Command{
		Use:   "day [date] [filter...]",
		Short: "Print a day's courts as a slot grid",
		Long: `Print every court side by side for one day, one row per half hour.

The grid covers the configured day_start..day_end window; --full prints
all 48 slots. Overnight bookings appear on both days they touch.`,
		Example: `  courtside day
  courtside day tomorrow
  courtside day 2025-03-12 status:all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			// A leading argument that reads as a date picks the day.
			rng, err := a.parseRange("", "")
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if r, err := a.parseRange(args[0], ""); err == nil {
					rng, args = r, args[1:]
				}
			}
			set, err := filter.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}

			session, err := a.openSession(cmd.Context(), rng)
			if err != nil {
				return err
			}

			first, last := 0, slot.PerDay
			if !full {
				first, last = a.visibleSlots()
			}
			if colWidth <= 0 {
				n := max(len(session.Resources()), 1)
				colWidth = min(max((termWidth()-8)/n-1, 8), 24)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n\n", formatHeader(rng.Start.Format("Monday, 2 January 2006")))
			if len(session.Resources()) == 0 {
				fmt.Fprintln(w, "No courts configured and no bookings found.")
				return nil
			}
			dv := calendar.BuildDay(session.Resources(), rng.Start, session.Segments(set, a.now()))
			PrintDayGrid(w, a.config, dv, DayGridOpts{
				FirstSlot: first,
				LastSlot:  last,
				ColWidth:  colWidth,
				Now:       a.now().In(session.Location()),
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print all 48 slots instead of the configured day")
	cmd.Flags().IntVar(&colWidth, "width", 0, "Column width (default: fit the terminal)")
	return cmd
}

// visibleSlots returns the configured [day_start, day_end) slot window.
func (a *App) visibleSlots() (first, last int) {
	first, last = 0, slot.PerDay
	if s, err := slot.Index(a.config.Schedule.DayStart); err == nil {
		first = s
	}
	if s, err := slot.Index(a.config.Schedule.DayEnd); err == nil && s > first {
		last = s
	}
	return first, last
}
