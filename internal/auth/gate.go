// Package auth resolves bearer credentials to principals and provides the
// role and ownership checks applied before any business logic runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/zenly/internal/models"
	"github.com/google/uuid"
)

// Principal is the resolved identity of the caller for a single request.
type Principal struct {
	ID   string
	Role models.Role
}

// IdentityStore looks up accounts by id. It must return an error wrapping
// models.ErrNotFound when the account does not exist.
type IdentityStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Gate turns a credential into a Principal.
type Gate struct {
	tokens *Issuer
	users  IdentityStore
}

// NewGate returns a Gate verifying tokens with issuer and resolving
// subjects through users.
func NewGate(issuer *Issuer, users IdentityStore) *Gate {
	return &Gate{tokens: issuer, users: users}
}

// Authenticate resolves the value of an Authorization header.
//
// An empty header yields ErrUnauthenticated; a header that is not a
// well-formed, correctly signed, unexpired bearer token yields
// ErrInvalidCredential; a valid token whose subject has no account yields
// ErrPrincipalNotFound. The principal's role is the account's stored role.
func (g *Gate) Authenticate(ctx context.Context, header string) (Principal, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return Principal{}, err
	}

	// Accounts are keyed by UUID; any other subject cannot name one.
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return Principal{}, ErrPrincipalNotFound
	}

	user, err := g.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return Principal{}, ErrPrincipalNotFound
		}
		return Principal{}, fmt.Errorf("resolve principal: %w", err)
	}

	return Principal{ID: user.ID, Role: user.Role}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrUnauthenticated
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: authorization header must be Bearer {token}", ErrInvalidCredential)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", ErrInvalidCredential)
	}
	return token, nil
}

// RequireRole permits p only if it holds role.
func RequireRole(p Principal, role models.Role) error {
	if p.Role != role {
		return ErrForbidden
	}
	return nil
}

// CheckOwnership permits p only if ownerID identifies p. Identifiers are
// compared in their normalized form.
func CheckOwnership(p Principal, ownerID string) error {
	if p.ID == "" || NormalizeID(p.ID) != NormalizeID(ownerID) {
		return ErrForbidden
	}
	return nil
}

// NormalizeID renders UUIDs in canonical lowercase form; other identifiers
// are trimmed and lowercased.
func NormalizeID(id string) string {
	if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return parsed.String()
	}
	return strings.ToLower(strings.TrimSpace(id))
}
