package domain

import "time"

// User is an operator account. It is not exposed through the public booking routes.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser holds the fields needed to create a user. The password is already hashed.
type NewUser struct {
	Username     string
	PasswordHash string
}
