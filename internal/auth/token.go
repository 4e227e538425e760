package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/zenly/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a minted credential stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// MinSecretLen is the shortest signing secret the issuer accepts.
const MinSecretLen = 16

// Claims is the payload of a Zenly credential. The subject holds the
// account id; Role records the account's role at mint time.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 credentials with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL. The secret must be at least MinSecretLen bytes.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLen)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Mint signs a credential for the given account and returns it together
// with its expiration instant.
func (i *Issuer) Mint(u *models.User) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns its claims. Every failure wraps ErrInvalidCredential.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, errors.New("missing subject"))
	}
	return claims, nil
}
