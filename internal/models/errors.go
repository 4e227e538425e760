package models

import "errors"

var (
	// ErrNotFound is returned when a record does not exist (or was deleted).
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique attribute is already taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidLogin is returned for an unknown email or a wrong password.
	ErrInvalidLogin = errors.New("invalid email or password")
	// ErrValidation marks input rejected by a service rule.
	ErrValidation = errors.New("validation failed")
)
