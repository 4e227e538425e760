package auth

import "errors"

var (
	// ErrUnauthenticated is returned when a request carries no credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredential is returned for malformed, expired or badly signed tokens.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrPrincipalNotFound is returned when a valid token names a missing account.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrForbidden is returned on a role or ownership mismatch.
	ErrForbidden = errors.New("forbidden")
)
