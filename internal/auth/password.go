package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLen is the shortest password accepted at registration.
	MinPasswordLen = 8
	// MaxPasswordLen is bcrypt's input limit.
	MaxPasswordLen = 72
)

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// ComparePassword reports whether password matches hash.
func ComparePassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
