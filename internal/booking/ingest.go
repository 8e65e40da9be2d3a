package booking

import (
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Record is a booking as the backing store holds it: absolute instants in UTC.
type Record struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start_time"`
	End        time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	Details
}

// Draft is a booking already expressed in local calendar fields, with an
// explicit overnight flag. Imports and the CLI produce drafts.
type Draft struct {
	ID         string
	ResourceID string
	Date       time.Time
	StartTime  string
	EndTime    string
	Overnight  bool
	EndDate    *time.Time
	Details
}

// Kind tags which shape a Raw booking carries.
type Kind int

const (
	KindAPI Kind = iota + 1
	KindNormalized
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindNormalized:
		return "normalized"
	default:
		return "unknown"
	}
}

// Raw is a booking on its way into the engine. Exactly one of Record or
// Draft is set, as indicated by Kind.
type Raw struct {
	Kind   Kind
	Record *Record
	Draft  *Draft
}

// FromRecord wraps a store record.
func FromRecord(r Record) Raw {
	return Raw{Kind: KindAPI, Record: &r}
}

// FromDraft wraps a locally built draft.
func FromDraft(d Draft) Raw {
	return Raw{Kind: KindNormalized, Draft: &d}
}

// ID returns the identifier of whichever shape is carried.
func (r Raw) ID() string {
	switch {
	case r.Kind == KindAPI && r.Record != nil:
		return r.Record.ID
	case r.Kind == KindNormalized && r.Draft != nil:
		return r.Draft.ID
	default:
		return ""
	}
}

// Rejection records why a raw booking was kept out of the calendar.
type Rejection struct {
	ID  string
	Err error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("booking %s: %v", r.ID, r.Err)
}

func (r Rejection) Unwrap() error {
	return r.Err
}

// Ingest normalizes raw bookings into the viewer's time zone.
// Bad records are returned as rejections and never stop the rest from loading.
func Ingest(raws []Raw, loc *time.Location) ([]*Booking, []Rejection) {
	bookings := make([]*Booking, 0, len(raws))
	var rejected []Rejection
	for _, raw := range raws {
		b, err := raw.Normalize(loc)
		if err != nil {
			rejected = append(rejected, Rejection{ID: raw.ID(), Err: err})
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, rejected
}

// IngestRecords is Ingest for a batch of store records.
func IngestRecords(records []Record, loc *time.Location) ([]*Booking, []Rejection) {
	raws := make([]Raw, len(records))
	for i, r := range records {
		raws[i] = FromRecord(r)
	}
	return Ingest(raws, loc)
}

// Normalize resolves the tagged shape into a validated Booking.
func (r Raw) Normalize(loc *time.Location) (*Booking, error) {
	switch {
	case r.Kind == KindAPI && r.Record != nil:
		return r.Record.Normalize(loc)
	case r.Kind == KindNormalized && r.Draft != nil:
		return r.Draft.Normalize(loc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRawBooking, r.Kind)
	}
}

// Normalize converts the record's instants to local wall-clock fields in loc.
func (r Record) Normalize(loc *time.Location) (*Booking, error) {
	if loc == nil {
		loc = time.Local
	}
	if !r.End.After(r.Start) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange,
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}

	start := r.Start.In(loc)
	end := r.End.In(loc)
	if err := onGridInstant(start); err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	if err := onGridInstant(end); err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}

	b := &Booking{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		Date:       dateutil.TruncateToDay(start),
		StartTime:  start.Format("15:04"),
		EndTime:    end.Format("15:04"),
		Details:    r.Details,
	}
	if endDay := dateutil.TruncateToDay(end); !sameDay(endDay, b.Date) {
		b.EndDate = &endDay
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Normalize validates the draft against its overnight flag.
func (d Draft) Normalize(loc *time.Location) (*Booking, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := slot.OnGrid(d.StartTime); err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	if err := slot.OnGrid(d.EndTime); err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}

	date := inLocation(d.Date, loc)
	var endDate *time.Time
	if d.EndDate != nil {
		ed := inLocation(*d.EndDate, loc)
		endDate = &ed
	}
	if err := checkOvernight(date, d.StartTime, d.EndTime, endDate, d.Overnight); err != nil {
		return nil, err
	}
	if !d.Overnight {
		endDate = nil
	}

	b := &Booking{
		ID:         d.ID,
		ResourceID: d.ResourceID,
		Date:       date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		EndDate:    endDate,
		Details:    d.Details,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func onGridInstant(t time.Time) error {
	if t.Second() != 0 || t.Nanosecond() != 0 || t.Minute()%slot.Minutes != 0 {
		return fmt.Errorf("%w: %s is not on the half-hour grid", slot.ErrMalformedTime, t.Format("15:04:05"))
	}
	return nil
}

// inLocation keeps the calendar date of t and moves it to midnight in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
