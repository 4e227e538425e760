package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// UserRepository defines the account persistence operations.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	// GetUserByID and GetUserByEmail return models.ErrNotFound for unknown accounts.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// TokenMinter issues credentials for accounts.
type TokenMinter interface {
	Mint(u *models.User) (string, time.Time, error)
}

// Session is returned by registration and login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

const maxNameLen = 100

// AuthService registers accounts and exchanges passwords for credentials.
type AuthService struct {
	repo   UserRepository
	tokens TokenMinter
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo UserRepository, tokens TokenMinter) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLen {
		return invalid("password must be at least %d characters", auth.MinPasswordLen)
	}
	if len(password) > auth.MaxPasswordLen {
		return invalid("password must be at most %d bytes", auth.MaxPasswordLen)
	}
	return nil
}

func validateEmail(email string) error {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.ContainsAny(email, " \t") {
		return invalid("email is not a valid address")
	}
	return nil
}

// Register creates an account with role user and returns a session for it.
// A duplicate email, in any letter case, yields models.ErrConflict.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := checkLen("name", name, 1, maxNameLen); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	u := &models.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.session(u)
}

// Login checks the password for email and returns a fresh session.
// Unknown emails and wrong passwords both yield models.ErrInvalidLogin.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			auth.ComparePassword(dummyHash(), password)
			return nil, models.ErrInvalidLogin
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !auth.ComparePassword(u.PasswordHash, password) {
		return nil, models.ErrInvalidLogin
	}
	return s.session(u)
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	token, exp, err := s.tokens.Mint(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = auth.HashPassword("zenly-placeholder-password")
	})
	return dummy
}
