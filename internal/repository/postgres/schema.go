package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id              TEXT PRIMARY KEY,
		pickup_location TEXT NOT NULL,
		drop_location   TEXT NOT NULL,
		vehicle_type    TEXT NOT NULL CHECK (vehicle_type IN ('bike', 'auto', 'car', 'suv')),
		date_time       TIMESTAMPTZ NOT NULL,
		payment_method  TEXT NOT NULL CHECK (payment_method IN ('cash', 'card', 'upi', 'wallet')),
		estimated_fare  NUMERIC NOT NULL CHECK (estimated_fare >= 0),
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK (status IN ('pending', 'confirmed', 'in-progress', 'completed', 'cancelled')),
		customer_name   TEXT NOT NULL,
		customer_phone  TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_status_idx ON bookings (status)`,
	`CREATE INDEX IF NOT EXISTS bookings_created_at_idx ON bookings (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS bookings_customer_phone_idx ON bookings (customer_phone)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
