package booking

import (
	"context"
	"time"
)

// Store defines the backing store for bookings. It is the source of truth;
// the calendar only ever holds a reloadable copy.
type Store interface {
	// ListBookings returns records overlapping [from, to) on the given
	// resources. An empty resource list means every resource.
	ListBookings(ctx context.Context, resourceIDs []string, from, to time.Time) ([]Record, error)

	// GetBooking retrieves a record by ID.
	// Returns ErrNotFound if no such booking exists.
	GetBooking(ctx context.Context, id string) (*Record, error)

	// CreateBooking stores a new record, assigning its ID when empty.
	// Returns ErrBookingOverlap if the court is already taken.
	CreateBooking(ctx context.Context, rec *Record) error

	// MoveBooking reassigns a booking to a resource and time range.
	// Returns ErrMutationRejected if the store refuses the change.
	MoveBooking(ctx context.Context, id, resourceID string, start, end time.Time) error

	// CancelBooking marks a booking as cancelled.
	CancelBooking(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
