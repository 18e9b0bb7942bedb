package repository

import (
	"context"

	"ruralride/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
// Lookups on an absent id return a nil booking and a nil error.
type BookingRepository interface {
	// Create assigns the id, the pending status and the creation time, then persists the booking.
	Create(ctx context.Context, booking *domain.NewBooking) (*domain.Booking, error)

	// GetByID retrieves a booking by ID.
	// Returns nil if no booking exists with the given ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// UpdateStatus overwrites the status of a booking and returns the updated record.
	// Returns nil if no booking exists with the given ID.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)

	// DeleteAll removes every booking. Used by the seeder only.
	DeleteAll(ctx context.Context) error
}
