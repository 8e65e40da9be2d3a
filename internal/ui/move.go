package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/occupancy"
	"github.com/javiermolinar/courtside/internal/slot"
)

// blockingStatuses are the statuses that hold a court.
var blockingStatuses = []booking.Status{booking.StatusConfirmed, booking.StatusPending, booking.StatusCompleted}

func (a *App) moveCmd() *cobra.Command {
	var (
		court string
		date  string
		start string
	)

	cmd := &cobra.Command{
		Use:   "move [booking-id]",
		Short: "Move a booking to another court or time",
		Long: `Move a booking, keeping its length.

Omitted flags keep the booking's current court, day or start time. The
move is checked against the target court before it is sent to the store.`,
		Example: `  courtside move 3f2a... --court=2
  courtside move 3f2a... --date=tomorrow --start=19:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			loc, err := a.location()
			if err != nil {
				return err
			}

			rec, err := a.store.GetBooking(ctx, args[0])
			if err != nil {
				return fmt.Errorf("getting booking: %w", err)
			}
			b, err := rec.Normalize(loc)
			if err != nil {
				return err
			}
			if b.IsCancelled() {
				return fmt.Errorf("cannot move booking %s: %w", b.ID, booking.ErrAlreadyCancelled)
			}

			target := dragdrop.Target{ResourceID: b.ResourceID, Day: b.Date, Slot: slot.Of(b.Start())}
			if court != "" {
				target.ResourceID = court
			}
			if date != "" {
				rng, err := a.parseRange(date, "")
				if err != nil {
					return err
				}
				target.Day = rng.Start
			}
			if start != "" {
				if err := slot.OnGrid(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				target.Slot, _ = slot.Index(start)
			}

			move, err := dragdrop.Compute(b, b.Date, target)
			if err != nil {
				return err
			}
			if move.Unchanged(b) {
				fmt.Fprintln(cmd.OutOrStdout(), "Booking not moved.")
				return nil
			}

			// Load both days so the target court can be checked and the
			// session can patch or reload after the store answers.
			rng := dateutil.DateRange{Start: b.Date, End: target.Day}
			if target.Day.Before(b.Date) {
				rng = dateutil.DateRange{Start: target.Day, End: b.Date}
			}
			session, err := a.openSession(ctx, rng)
			if err != nil {
				return err
			}

			segs := session.Segments(filter.Set{Statuses: blockingStatuses}, a.now())
			tbl := occupancy.Resolve(move.ResourceID, target.Day, booking.SegmentsOn(segs, move.ResourceID, target.Day))
			if !tbl.CanDrop(target.Slot, move.Slots, b.ID) {
				return fmt.Errorf("%s is taken at %s: %w",
					a.config.CourtName(move.ResourceID), move.Start.Format("Mon 2 Jan 15:04"), booking.ErrSlotCollision)
			}

			if err := session.Commit(ctx, move); err != nil {
				if errors.Is(err, booking.ErrMutationRejected) {
					return fmt.Errorf("store refused the move: %w", err)
				}
				return err
			}
			a.logger.Info().
				Str("booking_id", move.BookingID).
				Str("resource_id", move.ResourceID).
				Stringer("strategy", move.Strategy()).
				Msg("booking moved")

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s %s %s\n",
				bookingName(b), a.config.CourtName(move.ResourceID),
				move.Start.Format("Mon 2 Jan"), slot.Label(move.Start.Format("15:04"), move.End.Format("15:04")))
			return nil
		},
	}

	cmd.Flags().StringVar(&court, "court", "", "Target court ID")
	cmd.Flags().StringVar(&date, "date", "", "Target day")
	cmd.Flags().StringVar(&start, "start", "", "Target start time (HH:MM)")
	return cmd
}
