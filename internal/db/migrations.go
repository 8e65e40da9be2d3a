package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS bookings (
			id             TEXT PRIMARY KEY,
			resource_id    TEXT NOT NULL,
			start_time     TEXT NOT NULL,
			end_time       TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'confirmed' CHECK(status IN ('confirmed', 'pending', 'cancelled', 'completed')),
			booking_type   TEXT NOT NULL DEFAULT '',
			color          TEXT NOT NULL DEFAULT '',
			price          REAL NOT NULL DEFAULT 0,
			payment_status TEXT NOT NULL DEFAULT '',
			category_name  TEXT NOT NULL DEFAULT '',
			customer_name  TEXT NOT NULL DEFAULT '',
			created_by     TEXT NOT NULL DEFAULT '',
			notes          TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL,
			CHECK(end_time > start_time)
		);

		CREATE INDEX IF NOT EXISTS idx_bookings_resource_start ON bookings(resource_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	return nil
}
