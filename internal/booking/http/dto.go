package http

import (
	"errors"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/slot"
)

var errOffGrid = errors.New("times must fall on the half-hour grid")

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	ResourceIDs []string  `form:"resource_id"`
	From        time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To          time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if !r.To.After(r.From) {
		return booking.ErrInvalidRange
	}
	return nil
}

type BookingResponse struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	booking.Details
}

func NewBookingResponse(r *booking.Record) BookingResponse {
	return BookingResponse{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		StartTime:  r.Start.UTC(),
		EndTime:    r.End.UTC(),
		CreatedAt:  r.CreatedAt.UTC(),
		Details:    r.Details,
	}
}

type ListBookingsResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
}

type CreateBookingRequest struct {
	ID            string    `json:"id"`
	ResourceID    string    `json:"resource_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	BookingType   string    `json:"booking_type"`
	Color         string    `json:"color"`
	Price         float64   `json:"price" binding:"gte=0"`
	PaymentStatus string    `json:"payment_status"`
	CategoryName  string    `json:"category_name"`
	CustomerName  string    `json:"customer_name"`
	CreatedBy     string    `json:"created_by"`
	Notes         string    `json:"notes"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	return validateRange(r.StartTime, r.EndTime)
}

// Record converts the request into a store record.
func (r *CreateBookingRequest) Record() *booking.Record {
	return &booking.Record{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		Start:      r.StartTime.UTC(),
		End:        r.EndTime.UTC(),
		Details: booking.Details{
			Status:        booking.Status(r.Status),
			Type:          r.BookingType,
			Color:         r.Color,
			Price:         r.Price,
			PaymentStatus: r.PaymentStatus,
			CategoryName:  r.CategoryName,
			CustomerName:  r.CustomerName,
			CreatedBy:     r.CreatedBy,
			Notes:         r.Notes,
		},
	}
}

type MoveBookingRequest struct {
	ResourceID string    `json:"resource_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// Validate performs custom validation for MoveBookingRequest.
func (r *MoveBookingRequest) Validate() error {
	return validateRange(r.StartTime, r.EndTime)
}

func validateRange(start, end time.Time) error {
	if !end.After(start) {
		return booking.ErrInvalidRange
	}
	if !onGrid(start) || !onGrid(end) {
		return errOffGrid
	}
	return nil
}

func onGrid(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0 && t.Minute()%slot.Minutes == 0
}
