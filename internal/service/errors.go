package service

import "errors"

var (
	// ErrStorage is returned when the underlying store fails. The wrapped cause is for logs only.
	ErrStorage = errors.New("storage unavailable")

	// ErrInvalidStatus is returned when a status is not one of the booking statuses.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidUsername is returned when a username is shorter than three characters.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")

	// ErrInvalidPassword is returned when a password is shorter than six characters.
	ErrInvalidPassword = errors.New("password must be at least 6 characters")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
