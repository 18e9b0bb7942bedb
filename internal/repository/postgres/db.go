// Package postgres implements the repositories on PostgreSQL through database/sql.
package postgres

import (
	"context"
	"database/sql"

	"ruralride/internal/repository"
)

// Querier is the subset of *sql.DB the repositories use; *sql.Tx satisfies it too.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// NewStorage wires both repositories on db. Closing the storage closes db.
func NewStorage(db *sql.DB) *repository.Storage {
	return repository.NewStorage("postgres",
		NewBookingRepository(db),
		NewUserRepository(db),
		func(context.Context) error { return db.Close() },
	)
}
