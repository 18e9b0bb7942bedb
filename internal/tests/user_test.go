package tests

import (
	"context"
	"errors"
	"testing"

	"ruralride/internal/service"
)

// ──────────────────────────────────────────────
// 3. OPERATOR ACCOUNTS
// ──────────────────────────────────────────────

func TestUserRegister_HashesPassword(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	userService := service.NewUserService(users, discardLogger())

	user, err := userService.Register(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "admin123" {
		t.Errorf("expected hashed password, got %q", user.PasswordHash)
	}
}

func TestUserRegister_Validation(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository(), discardLogger())

	if _, err := userService.Register(context.Background(), "ab", "secret1"); !errors.Is(err, service.ErrInvalidUsername) {
		t.Errorf("expected ErrInvalidUsername, got %v", err)
	}
	if _, err := userService.Register(context.Background(), "operator", "12345"); !errors.Is(err, service.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestUserRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository(), discardLogger())

	if _, err := userService.Register(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := userService.Register(context.Background(), "admin", "other123"); !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserAuthenticate(t *testing.T) {
	t.Parallel()

	userService := service.NewUserService(NewMockUserRepository(), discardLogger())
	if _, err := userService.Register(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := userService.Authenticate(context.Background(), "admin", "admin123")
	if err != nil || user == nil || user.Username != "admin" {
		t.Fatalf("expected admin, got %+v (err %v)", user, err)
	}

	if _, err := userService.Authenticate(context.Background(), "admin", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := userService.Authenticate(context.Background(), "ghost", "admin123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserAuthenticate_StorageFailure(t *testing.T) {
	t.Parallel()

	users := NewMockUserRepository()
	users.GetError = ErrMockTimeout
	userService := service.NewUserService(users, discardLogger())

	if _, err := userService.Authenticate(context.Background(), "admin", "admin123"); !errors.Is(err, service.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
