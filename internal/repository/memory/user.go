package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository is an in-memory implementation of repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, nu *domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == nu.Username {
			return nil, repository.ErrDuplicate
		}
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user

	copy := *user
	return &copy, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

// DeleteAll removes every user.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]*domain.User)
	return nil
}
