package memory

import "ruralride/internal/repository"

// NewStorage creates an empty in-memory Storage.
func NewStorage() *repository.Storage {
	return repository.NewStorage("memory", NewBookingRepository(), NewUserRepository(), nil)
}
