package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/occupancy"
)

// Session owns the single in-memory booking list. The list is replaced
// wholesale on every load and otherwise only patched by a confirmed move.
type Session struct {
	store     booking.Store
	loc       *time.Location
	resources []string
	operator  string
	logger    zerolog.Logger

	bookings []*booking.Booking
	loaded   dateutil.DateRange
}

// Option configures a Session.
type Option func(*Session)

// WithResources fixes the court list and its display order.
func WithResources(ids []string) Option {
	return func(s *Session) { s.resources = slices.Clone(ids) }
}

// WithOperator sets who "mine only" refers to.
func WithOperator(name string) Option {
	return func(s *Session) { s.operator = name }
}

// WithLogger sets the logger used for rejected records and collisions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session reading from store in the viewer's location.
func NewSession(store booking.Store, loc *time.Location, opts ...Option) *Session {
	if loc == nil {
		loc = time.Local
	}
	s := &Session{store: store, loc: loc, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the viewer's time zone.
func (s *Session) Location() *time.Location {
	return s.loc
}

// Operator returns the configured operator name.
func (s *Session) Operator() string {
	return s.operator
}

// Loaded returns the range of days currently held.
func (s *Session) Loaded() dateutil.DateRange {
	return s.loaded
}

// Covers reports whether every day of rng is already loaded.
func (s *Session) Covers(rng dateutil.DateRange) bool {
	if s.loaded.Start.IsZero() {
		return false
	}
	return s.loaded.Contains(rng.Start) && s.loaded.Contains(rng.End)
}

// Bookings returns the held bookings in load order.
func (s *Session) Bookings() []*booking.Booking {
	return s.bookings
}

// Resources returns the configured courts, or the courts seen in the
// loaded bookings when none were configured.
func (s *Session) Resources() []string {
	if len(s.resources) > 0 {
		return s.resources
	}
	var seen []string
	for _, b := range s.bookings {
		if !slices.Contains(seen, b.ResourceID) {
			seen = append(seen, b.ResourceID)
		}
	}
	slices.Sort(seen)
	return seen
}

// Find returns the booking with the given ID, or nil.
func (s *Session) Find(id string) *booking.Booking {
	for _, b := range s.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Load fetches rng from the store and replaces the held list.
func (s *Session) Load(ctx context.Context, rng dateutil.DateRange) error {
	records, err := Fetch(ctx, s.store, s.resources, rng)
	if err != nil {
		return err
	}
	s.Replace(records, rng)
	return nil
}

// Reload refetches the currently loaded range.
func (s *Session) Reload(ctx context.Context) error {
	if s.loaded.Start.IsZero() {
		return nil
	}
	return s.Load(ctx, s.loaded)
}

// Replace ingests records for rng and swaps them in. Records that fail
// normalization are logged and left out. It returns the rejections.
func (s *Session) Replace(records []booking.Record, rng dateutil.DateRange) []booking.Rejection {
	bookings, rejected := booking.IngestRecords(records, s.loc)
	for _, r := range rejected {
		s.logger.Warn().Str("booking_id", r.ID).Err(r.Err).Msg("skipping malformed booking")
	}
	s.bookings = bookings
	s.loaded = rng
	s.logCollisions()
	return rejected
}

// Patch moves a held booking in place according to a.
func (s *Session) Patch(a dragdrop.Assignment) error {
	for i, b := range s.bookings {
		if b.ID != a.BookingID {
			continue
		}
		moved, err := a.Apply(b)
		if err != nil {
			return err
		}
		s.bookings[i] = moved
		return nil
	}
	return fmt.Errorf("%w: %s", booking.ErrNotFound, a.BookingID)
}

// Settle absorbs the store's answer to a submitted move. It patches the
// list when that is safe and reports whether the loaded range must be
// reloaded. A store error always requires a reload and is returned wrapped
// in ErrMutationRejected.
func (s *Session) Settle(a dragdrop.Assignment, moveErr error) (reload bool, err error) {
	if moveErr != nil {
		s.logger.Warn().Str("booking_id", a.BookingID).Err(moveErr).Msg("move rejected")
		if errors.Is(moveErr, booking.ErrMutationRejected) {
			return true, moveErr
		}
		return true, fmt.Errorf("%w: %w", booking.ErrMutationRejected, moveErr)
	}
	if a.Strategy() == dragdrop.Reload {
		return true, nil
	}
	if err := s.Patch(a); err != nil {
		s.logger.Debug().Str("booking_id", a.BookingID).Err(err).Msg("patch failed, reloading")
		return true, nil
	}
	return false, nil
}

// Commit submits a move to the store and brings the list back in line with it.
func (s *Session) Commit(ctx context.Context, a dragdrop.Assignment) error {
	moveErr := s.store.MoveBooking(ctx, a.BookingID, a.ResourceID, a.Start.UTC(), a.End.UTC())
	reload, err := s.Settle(a, moveErr)
	if reload {
		if rerr := s.Reload(ctx); rerr != nil {
			return errors.Join(err, fmt.Errorf("reloading: %w", rerr))
		}
	}
	return err
}

// Visible returns the held bookings passing set, evaluated on date.
func (s *Session) Visible(set filter.Set, date time.Time) []*booking.Booking {
	return filter.Apply(s.bookings, set, filter.Reference{Date: date, Operator: s.operator})
}

// Segments returns the visible bookings projected onto calendar days.
func (s *Session) Segments(set filter.Set, date time.Time) []booking.Segment {
	return booking.SegmentAll(s.Visible(set, date))
}

// DayView builds the court-by-slot grid for day.
func (s *Session) DayView(day time.Time, set filter.Set) DayView {
	return BuildDay(s.Resources(), day, s.Segments(set, day))
}

// WeekView builds the week grid for one court.
func (s *Session) WeekView(resourceID string, anchor time.Time, set filter.Set) WeekView {
	return BuildWeek(resourceID, anchor, s.Segments(set, anchor))
}

// MonthView builds the month summary.
func (s *Session) MonthView(anchor time.Time, set filter.Set) MonthView {
	return BuildMonth(anchor, s.Segments(set, anchor))
}

// logCollisions reports double-booked slots once per load.
func (s *Session) logCollisions() {
	segments := booking.SegmentAll(s.bookings)
	type key struct {
		resource string
		day      time.Time
	}
	seen := make(map[key]bool)
	for _, seg := range segments {
		k := key{seg.Booking.ResourceID, dateutil.CalendarDay(seg.Day)}
		if seen[k] {
			continue
		}
		seen[k] = true
		tbl := occupancy.Resolve(k.resource, seg.Day, booking.SegmentsOn(segments, k.resource, seg.Day))
		for _, c := range tbl.Collisions {
			s.logger.Warn().
				Str("resource_id", k.resource).
				Str("day", seg.Day.Format("2006-01-02")).
				Str("kept", c.Kept.ID).
				Str("dropped", c.Dropped.ID).
				Int("slot", c.Slot).
				Msg("slot collision")
		}
	}
}
