package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
)

var _ repository.BookingRepository = (*BookingRepository)(nil)

const bookingColumns = `id, pickup_location, drop_location, vehicle_type, date_time, payment_method, estimated_fare, status, customer_name, customer_phone, created_at`

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q   Querier
	now func() time.Time
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db, now: time.Now}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, nb *domain.NewBooking) (*domain.Booking, error) {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + bookingColumns

	row := r.q.QueryRowContext(ctx, query,
		uuid.New().String(),
		nb.PickupLocation,
		nb.DropLocation,
		nb.VehicleType,
		nb.DateTime,
		nb.PaymentMethod,
		nb.EstimatedFare,
		domain.BookingStatusPending,
		nb.CustomerName,
		nb.CustomerPhone,
		r.now().UTC().Truncate(time.Microsecond),
	)
	return scanBooking(row)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// UpdateStatus overwrites the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	query := `UPDATE bookings SET status = $1 WHERE id = $2 RETURNING ` + bookingColumns

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}

// DeleteAll removes every booking.
func (r *BookingRepository) DeleteAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM bookings`)
	return err
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.PickupLocation,
		&b.DropLocation,
		&b.VehicleType,
		&b.DateTime,
		&b.PaymentMethod,
		&b.EstimatedFare,
		&b.Status,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.DateTime = b.DateTime.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}
