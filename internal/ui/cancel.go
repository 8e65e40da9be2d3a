package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [booking-id]",
		Short: "Cancel a booking",
		Long: `Cancel a booking by its ID. The court is freed; the booking stays
visible with status:all.

Example:
  courtside cancel 3f2a9c1e-...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			id := args[0]
			if err := a.store.CancelBooking(cmd.Context(), id); err != nil {
				if errors.Is(err, booking.ErrAlreadyCancelled) {
					fmt.Fprintf(cmd.OutOrStdout(), "Booking %s is already cancelled\n", id)
					return nil
				}
				return fmt.Errorf("cancelling booking: %w", err)
			}
			a.logger.Info().Str("booking_id", id).Msg("booking cancelled")

			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled booking %s\n", id)
			return nil
		},
	}
}
