package repository

import (
	"context"

	"ruralride/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, user *domain.NewUser) (*domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns nil if no user exists with the given ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns nil if no user exists with the given username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// DeleteAll removes every user. Used by the seeder only.
	DeleteAll(ctx context.Context) error
}
