// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/llm"
)

// storeTimeout bounds a single round trip to the booking store.
const storeTimeout = 30 * time.Second

// askRetries is how many times a rejected LLM answer is retried.
const askRetries = 2

// RangeLoadedMsg carries the records fetched for a range of days.
type RangeLoadedMsg struct {
	Range   dateutil.DateRange
	Records []booking.Record
}

// MoveSettledMsg is the store's answer to a submitted move.
// Err is nil when the move was accepted.
type MoveSettledMsg struct {
	Assignment dragdrop.Assignment
	Err        error
}

// BookingCancelledMsg is sent when a booking was cancelled in the store.
type BookingCancelledMsg struct {
	ID string
}

// FilterTranslatedMsg is sent when a question was turned into a filter.
type FilterTranslatedMsg struct {
	Result *llm.FilterResult
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadRange fetches every booking overlapping rng.
func LoadRange(store booking.Store, resources []string, rng dateutil.DateRange) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		records, err := calendar.Fetch(ctx, store, resources, rng)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading bookings: %w", err)}
		}
		return RangeLoadedMsg{Range: rng, Records: records}
	}
}

// MoveBooking submits a. A store refusal is reported in the message, not as ErrMsg,
// so the caller can settle its copy of the list.
func MoveBooking(store booking.Store, a dragdrop.Assignment) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := store.MoveBooking(ctx, a.BookingID, a.ResourceID, a.Start.UTC(), a.End.UTC())
		return MoveSettledMsg{Assignment: a, Err: err}
	}
}

// CancelBooking marks a booking as cancelled.
func CancelBooking(store booking.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := store.CancelBooking(ctx, id); err != nil {
			if errors.Is(err, booking.ErrAlreadyCancelled) {
				return StatusMsgCmd{Msg: "Booking is already cancelled"}
			}
			return ErrMsg{Err: fmt.Errorf("cancelling booking: %w", err)}
		}
		return BookingCancelledMsg{ID: id}
	}
}

// Ask translates a natural language question into a filter.
func Ask(cfg config.LLMConfig, req llm.FilterRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		client, err := llm.NewClient(ctx, cfg)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}
		req.Compact = llm.IsLocal(cfg.Provider)

		result, err := llm.NewTranslator(client, askRetries).Translate(ctx, req)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("asking: %w", err)}
		}
		return FilterTranslatedMsg{Result: result}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
