package domain

import "errors"

// Sentinel errors shared between the service and transport layers.
var (
	// ErrInvalidCredentials covers unknown id_number, wrong password and
	// inactive accounts alike, so the boundary cannot leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrIDNumberTaken = errors.New("id_number already taken")
	ErrEmailTaken    = errors.New("email already taken")
)
