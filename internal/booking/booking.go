// Package booking defines the court booking domain types used by the calendar engine.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Validation errors.
var (
	ErrContradictoryOvernight = errors.New("contradictory overnight flag")
	ErrInvalidRange           = errors.New("end must be after start")
	ErrEmptyResource          = errors.New("resource id cannot be empty")
	ErrEmptyID                = errors.New("booking id cannot be empty")
)

// Domain errors.
var (
	ErrSlotCollision     = errors.New("slot already occupied by another booking")
	ErrMutationRejected  = errors.New("booking change rejected by store")
	ErrNotFound          = errors.New("booking not found")
	ErrBookingOverlap    = errors.New("booking overlaps an existing booking on the same court")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrUnknownRawBooking = errors.New("unknown raw booking kind")
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusConfirmed, StatusPending, StatusCompleted, StatusCancelled}

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Details is descriptive metadata the engine passes through untouched.
type Details struct {
	Status        Status  `json:"status"`
	Type          string  `json:"booking_type,omitempty"`
	Color         string  `json:"color,omitempty"`
	Price         float64 `json:"price,omitempty"`
	PaymentStatus string  `json:"payment_status,omitempty"`
	CategoryName  string  `json:"category_name,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CreatedBy     string  `json:"created_by,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// Booking is a reservation in the viewer's local time.
// Date is local midnight of the day the booking starts. EndDate is set only
// when the booking ends on a different calendar day.
type Booking struct {
	ID         string
	ResourceID string
	Date       time.Time
	StartTime  string // "HH:MM" on the half-hour grid
	EndTime    string // "HH:MM" on the half-hour grid
	EndDate    *time.Time
	Details
}

// IsOvernight returns true if the booking ends on a later calendar day.
func (b *Booking) IsOvernight() bool {
	return b.EndDate != nil && !sameDay(*b.EndDate, b.Date)
}

// Label returns the time range shown on every segment of the booking.
func (b *Booking) Label() string {
	return slot.Label(b.StartTime, b.EndTime)
}

// DateKey returns the start date as YYYY-MM-DD.
func (b *Booking) DateKey() string {
	return b.Date.Format("2006-01-02")
}

// LastDay returns the calendar day the booking ends on.
func (b *Booking) LastDay() time.Time {
	if b.IsOvernight() {
		return *b.EndDate
	}
	return b.Date
}

// Slots returns the booking length in half-hour slots.
func (b *Booking) Slots() int {
	n, err := slot.Duration(b.StartTime, b.EndTime)
	if err != nil {
		return 0
	}
	return n
}

// Start returns the local instant the booking begins.
func (b *Booking) Start() time.Time {
	return wallClock(b.Date, b.StartTime)
}

// End returns the local instant the booking ends.
func (b *Booking) End() time.Time {
	return wallClock(b.LastDay(), b.EndTime)
}

// IsCancelled returns true if the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Record converts the booking back into its store representation.
func (b *Booking) Record() Record {
	return Record{
		ID:         b.ID,
		ResourceID: b.ResourceID,
		Start:      b.Start().UTC(),
		End:        b.End().UTC(),
		Details:    b.Details,
	}
}

// Clone returns a deep copy of the booking.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.EndDate != nil {
		d := *b.EndDate
		c.EndDate = &d
	}
	return &c
}

// Validate checks that exactly one of "end after start on the slot axis" and
// "overnight" holds, and that both times sit on the half-hour grid.
func (b *Booking) Validate() error {
	if b.ID == "" {
		return ErrEmptyID
	}
	if b.ResourceID == "" {
		return ErrEmptyResource
	}
	if err := slot.OnGrid(b.StartTime); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := slot.OnGrid(b.EndTime); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	return checkOvernight(b.Date, b.StartTime, b.EndTime, b.EndDate, b.IsOvernight())
}

func checkOvernight(date time.Time, start, end string, endDate *time.Time, overnight bool) error {
	s, _ := slot.Index(start)
	e, _ := slot.Index(end)

	if endDate != nil && dateutil.TruncateToDay(*endDate).Before(dateutil.TruncateToDay(date)) {
		return fmt.Errorf("%w: end date %s before %s", ErrInvalidRange,
			endDate.Format("2006-01-02"), date.Format("2006-01-02"))
	}

	switch {
	case !overnight && e <= s:
		return fmt.Errorf("%w: %s-%s ends before it starts on the same day", ErrContradictoryOvernight, start, end)
	case overnight && e > s:
		return fmt.Errorf("%w: %s-%s is marked overnight but ends later the same clock day", ErrContradictoryOvernight, start, end)
	case overnight && (endDate == nil || sameDay(*endDate, date)):
		return fmt.Errorf("%w: overnight booking without a later end date", ErrContradictoryOvernight)
	case !overnight && endDate != nil && !sameDay(*endDate, date):
		return fmt.Errorf("%w: end date set on a same-day booking", ErrContradictoryOvernight)
	}
	return nil
}

func wallClock(day time.Time, hhmm string) time.Time {
	s, err := slot.Index(hhmm)
	if err != nil {
		return dateutil.TruncateToDay(day)
	}
	t, _ := slot.Combine(day, s)
	return t
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
