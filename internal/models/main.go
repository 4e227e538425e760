// Package models defines the core data structures for accounts, mood entries,
// journal entries and meditations.
package models

import "time"

// Role is the privilege level of an account.
type Role string

const (
	// RoleUser is the default role given at registration.
	RoleUser Role = "user"
	// RoleAdmin may manage meditations and other accounts.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an application account with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name chosen by the user.
	Name string `json:"name"`
	// Email is the normalized (lowercase) login email.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte `json:"-"`
	// Role is the privilege level of the account.
	Role Role `json:"role"`
	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Owned is implemented by records that belong to exactly one account.
type Owned interface {
	// Owner returns the identifier of the owning account.
	Owner() string
}
