package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
)

// UserService handles operator accounts.
type UserService struct {
	users repository.UserRepository
	cost  int
	log   logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost, log: log}
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if utf8.RuneCountInString(username) < 3 {
		return nil, ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < 6 {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.NewUser{Username: username, PasswordHash: string(hash)})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		s.log.WithError(err).WithField("op", "create user").Error("storage operation failed")
		return nil, fmt.Errorf("create user: %w: %w", ErrStorage, err)
	}
	return user, nil
}

// Authenticate returns the user when the password matches.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.log.WithError(err).WithField("op", "get user").Error("storage operation failed")
		return nil, fmt.Errorf("get user: %w: %w", ErrStorage, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
