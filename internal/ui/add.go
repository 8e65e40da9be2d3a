package ui

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/slot"
)

func (a *App) addCmd() *cobra.Command {
	var (
		court    string
		date     string
		start    string
		end      string
		customer string
		kind     string
		status   string
		price    float64
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book a court",
		Long: `Create a booking on the half-hour grid.

An end time at or before the start time books through midnight into
the next day. The store refuses bookings that overlap another one on
the same court.`,
		Example: `  courtside add --court=1 --start=18:00 --end=19:30 --customer="Ana Ruiz"
  courtside add --court=2 --date=friday --start=23:00 --end=00:30 --type=tournament`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			rng, err := a.parseRange(date, "")
			if err != nil {
				return err
			}
			loc, err := a.location()
			if err != nil {
				return err
			}

			st := booking.Status(status)
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			draft, err := newDraft(court, rng.Start, start, end)
			if err != nil {
				return err
			}
			draft.Details = booking.Details{
				Status:       st,
				Type:         kind,
				Price:        price,
				CustomerName: customer,
				CreatedBy:    a.config.Club.Operator,
				Notes:        notes,
			}

			b, err := draft.Normalize(loc)
			if err != nil {
				return err
			}
			rec := b.Record()
			if err := a.store.CreateBooking(cmd.Context(), &rec); err != nil {
				return fmt.Errorf("creating booking: %w", err)
			}
			a.logger.Info().Str("booking_id", rec.ID).Str("resource_id", rec.ResourceID).Msg("booking created")

			day := b.Date.Format("Mon 2 Jan 2006")
			if b.IsOvernight() {
				day += " → " + b.LastDay().Format("Mon 2 Jan")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s %s %s (%s) for %s\nID: %s\n",
				a.config.CourtName(b.ResourceID), day, b.Label(), FormatSlots(b.Slots()), bookingName(b), rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&court, "court", "", "Court ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Day the booking starts (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&kind, "type", "", "Booking type, e.g. match, lesson, tournament")
	cmd.Flags().StringVar(&status, "status", string(booking.StatusConfirmed), "confirmed or pending")
	cmd.Flags().Float64Var(&price, "price", 0, "Price")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	_ = cmd.MarkFlagRequired("court")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// newDraft builds a draft starting on day. An end at or before the start
// on the slot axis makes the booking overnight.
func newDraft(court string, day time.Time, start, end string) (booking.Draft, error) {
	s, err := slot.Index(start)
	if err != nil {
		return booking.Draft{}, fmt.Errorf("--start: %w", err)
	}
	e, err := slot.Index(end)
	if err != nil {
		return booking.Draft{}, fmt.Errorf("--end: %w", err)
	}

	d := booking.Draft{
		ID:         uuid.NewString(),
		ResourceID: court,
		Date:       day,
		StartTime:  start,
		EndTime:    end,
	}
	if e <= s {
		next := day.AddDate(0, 0, 1)
		d.Overnight = true
		d.EndDate = &next
	}
	return d, nil
}
