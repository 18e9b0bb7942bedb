// Package memory implements the repositories on process-local maps.
// Data is lost when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
)

var _ repository.BookingRepository = (*BookingRepository)(nil)

// BookingRepository is an in-memory implementation of repository.BookingRepository.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	order    []string
	now      func() time.Time
}

// NewBookingRepository creates an empty in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[string]*domain.Booking),
		now:      time.Now,
	}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, nb *domain.NewBooking) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:             uuid.New().String(),
		PickupLocation: nb.PickupLocation,
		DropLocation:   nb.DropLocation,
		VehicleType:    nb.VehicleType,
		DateTime:       nb.DateTime,
		PaymentMethod:  nb.PaymentMethod,
		EstimatedFare:  nb.EstimatedFare,
		Status:         domain.BookingStatusPending,
		CustomerName:   nb.CustomerName,
		CustomerPhone:  nb.CustomerPhone,
		CreatedAt:      r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	r.order = append(r.order, booking.ID)

	copy := *booking
	return &copy, nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copy := *booking
	return &copy, nil
}

// GetAll retrieves all bookings in insertion order.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		copy := *r.bookings[id]
		result = append(result, &copy)
	}
	return result, nil
}

// UpdateStatus overwrites the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	booking.Status = status
	copy := *booking
	return &copy, nil
}

// DeleteAll removes every booking.
func (r *BookingRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = make(map[string]*domain.Booking)
	r.order = nil
	return nil
}
