// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/courtside/internal/booking"
)

// timeLayout keeps stored instants lexically ordered.
const timeLayout = "2006-01-02T15:04:05Z"

var bookingColumns = []string{
	"id", "resource_id", "start_time", "end_time", "status", "booking_type", "color",
	"price", "payment_status", "category_name", "customer_name", "created_by", "notes", "created_at",
}

// SQLite implements booking.Store using SQLite.
type SQLite struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, sb: squirrel.StatementBuilder}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListBookings returns the bookings overlapping [from, to), ordered by start.
// Cancelled bookings are included; hiding them is the filter's job.
func (s *SQLite) ListBookings(ctx context.Context, resourceIDs []string, from, to time.Time) ([]booking.Record, error) {
	q := s.sb.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Lt{"start_time": formatTime(to)}).
		Where(squirrel.Gt{"end_time": formatTime(from)}).
		OrderBy("start_time", "resource_id", "id")
	if len(resourceIDs) > 0 {
		q = q.Where(squirrel.Eq{"resource_id": resourceIDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []booking.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return records, nil
}

// GetBooking retrieves a booking by ID.
func (s *SQLite) GetBooking(ctx context.Context, id string) (*booking.Record, error) {
	query, args, err := s.sb.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", booking.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateBooking stores a new booking, assigning a UUID when the ID is empty.
// Returns booking.ErrBookingOverlap if the court is taken for any part of the range.
func (s *SQLite) CreateBooking(ctx context.Context, rec *booking.Record) error {
	if err := validateRecord(rec.ResourceID, rec.Start, rec.End); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = booking.StatusConfirmed
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("unknown status %q", rec.Status)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if rec.Status != booking.StatusCancelled {
		overlap, err := s.hasOverlap(ctx, tx, rec.ResourceID, rec.Start, rec.End, "")
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("%w: %s %s", booking.ErrBookingOverlap, rec.ResourceID, rec.Start.Format(time.RFC3339))
		}
	}

	query, args, err := s.sb.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			rec.ID,
			rec.ResourceID,
			formatTime(rec.Start),
			formatTime(rec.End),
			string(rec.Status),
			rec.Type,
			rec.Color,
			rec.Price,
			rec.PaymentStatus,
			rec.CategoryName,
			rec.CustomerName,
			rec.CreatedBy,
			rec.Notes,
			formatTime(rec.CreatedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// MoveBooking reassigns a booking to a court and time range atomically.
// Any refusal is reported as booking.ErrMutationRejected wrapping the cause.
func (s *SQLite) MoveBooking(ctx context.Context, id, resourceID string, start, end time.Time) error {
	if err := validateRecord(resourceID, start, end); err != nil {
		return fmt.Errorf("%w: %w", booking.ErrMutationRejected, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := s.statusOf(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", booking.ErrMutationRejected, err)
	}
	if status == booking.StatusCancelled {
		return fmt.Errorf("%w: %w", booking.ErrMutationRejected, booking.ErrAlreadyCancelled)
	}

	overlap, err := s.hasOverlap(ctx, tx, resourceID, start, end, id)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("%w: %w: %s %s", booking.ErrMutationRejected, booking.ErrBookingOverlap,
			resourceID, start.Format(time.RFC3339))
	}

	query, args, err := s.sb.Update("bookings").
		Set("resource_id", resourceID).
		Set("start_time", formatTime(start)).
		Set("end_time", formatTime(end)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build move booking query failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("moving booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// CancelBooking marks a booking as cancelled.
// Returns booking.ErrAlreadyCancelled if it was cancelled before.
func (s *SQLite) CancelBooking(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := s.statusOf(ctx, tx, id)
	if err != nil {
		return err
	}
	if status == booking.StatusCancelled {
		return fmt.Errorf("%w: %s", booking.ErrAlreadyCancelled, id)
	}

	query, args, err := s.sb.Update("bookings").
		Set("status", string(booking.StatusCancelled)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel booking query failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("cancelling booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// hasOverlap reports whether a live booking on resourceID intersects [start, end).
func (s *SQLite) hasOverlap(ctx context.Context, tx *sql.Tx, resourceID string, start, end time.Time, excludeID string) (bool, error) {
	sub := s.sb.Select("1").
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.NotEq{"status": string(booking.StatusCancelled)}).
		Where(squirrel.Lt{"start_time": formatTime(end)}).
		Where(squirrel.Gt{"end_time": formatTime(start)})
	if excludeID != "" {
		sub = sub.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS ("+query+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking overlap: %w", err)
	}
	return exists, nil
}

func (s *SQLite) statusOf(ctx context.Context, tx *sql.Tx, id string) (booking.Status, error) {
	query, args, err := s.sb.Select("status").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build status query failed: %w", err)
	}

	var status string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", booking.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("querying booking status: %w", err)
	}
	return booking.Status(status), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*booking.Record, error) {
	var (
		rec                           booking.Record
		status                        string
		startTime, endTime, createdAt string
	)

	err := row.Scan(
		&rec.ID,
		&rec.ResourceID,
		&startTime,
		&endTime,
		&status,
		&rec.Type,
		&rec.Color,
		&rec.Price,
		&rec.PaymentStatus,
		&rec.CategoryName,
		&rec.CustomerName,
		&rec.CreatedBy,
		&rec.Notes,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning booking: %w", err)
	}
	rec.Status = booking.Status(status)

	if rec.Start, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("parsing start time of %s: %w", rec.ID, err)
	}
	if rec.End, err = parseTime(endTime); err != nil {
		return nil, fmt.Errorf("parsing end time of %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at of %s: %w", rec.ID, err)
	}

	return &rec, nil
}

func validateRecord(resourceID string, start, end time.Time) error {
	if resourceID == "" {
		return booking.ErrEmptyResource
	}
	if !end.After(start) {
		return fmt.Errorf("%w: %s to %s", booking.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
