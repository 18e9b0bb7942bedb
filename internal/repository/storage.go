package repository

import "context"

// Storage bundles the repositories of one backend.
type Storage struct {
	// Backend names the active implementation ("memory", "mongo", "postgres").
	Backend  string
	Bookings BookingRepository
	Users    UserRepository

	closeFn func(ctx context.Context) error
}

// NewStorage creates a Storage. closeFn may be nil.
func NewStorage(backend string, bookings BookingRepository, users UserRepository, closeFn func(ctx context.Context) error) *Storage {
	return &Storage{
		Backend:  backend,
		Bookings: bookings,
		Users:    users,
		closeFn:  closeFn,
	}
}

// Close releases the backend's connections.
func (s *Storage) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
