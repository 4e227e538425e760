package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// UserService manages existing accounts: profile edits by their owner and
// administration by admins.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ProfileUpdate holds the optional changes to the caller's own account.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// UpdateProfile applies upd to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, p auth.Principal, upd ProfileUpdate) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := checkLen("name", name, 1, maxNameLen); err != nil {
			return nil, err
		}
		u.Name = name
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	u.UpdatedAt = nowFunc()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, p auth.Principal) ([]models.User, error) {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// UpdateRole changes the role of account id. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, p auth.Principal, id string, role models.Role) (*models.User, error) {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("role must be %q or %q", models.RoleUser, models.RoleAdmin)
	}
	cid, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = nowFunc()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return u, nil
}

// DeleteUser removes account id together with its entries. Admin only;
// an admin cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, p auth.Principal, id string) error {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return err
	}
	cid, err := canonicalID(id)
	if err != nil {
		return err
	}
	if auth.NormalizeID(p.ID) == cid {
		return invalid("you cannot delete your own account")
	}
	return s.repo.DeleteUser(ctx, cid)
}
