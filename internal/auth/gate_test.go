package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/zenly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentityStore struct {
	users map[string]*models.User
	err   error
}

func (f *fakeIdentityStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func TestGate_Authenticate(t *testing.T) {
	iss := newTestIssuer(t)
	alice := &models.User{ID: "11111111-1111-1111-1111-111111111111", Role: models.RoleUser}
	ghost := &models.User{ID: "99999999-9999-9999-9999-999999999999", Role: models.RoleUser}

	aliceTok, _, err := iss.Mint(alice)
	require.NoError(t, err)
	ghostTok, _, err := iss.Mint(ghost)
	require.NoError(t, err)

	expiredIss := newTestIssuer(t)
	expiredIss.now = func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) }
	expiredTok, _, err := expiredIss.Mint(alice)
	require.NoError(t, err)

	store := &fakeIdentityStore{users: map[string]*models.User{alice.ID: alice}}
	gate := NewGate(iss, store)

	tests := []struct {
		name    string
		header  string
		wantErr error
		wantID  string
	}{
		{name: "no header", header: "", wantErr: ErrUnauthenticated},
		{name: "blank header", header: "   ", wantErr: ErrUnauthenticated},
		{name: "wrong scheme", header: "Basic " + aliceTok, wantErr: ErrInvalidCredential},
		{name: "bearer without token", header: "Bearer ", wantErr: ErrInvalidCredential},
		{name: "garbage token", header: "Bearer nope", wantErr: ErrInvalidCredential},
		{name: "expired token", header: "Bearer " + expiredTok, wantErr: ErrInvalidCredential},
		{name: "unknown account", header: "Bearer " + ghostTok, wantErr: ErrPrincipalNotFound},
		{name: "valid", header: "Bearer " + aliceTok, wantID: alice.ID},
		{name: "lowercase scheme", header: "bearer " + aliceTok, wantID: alice.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := gate.Authenticate(context.Background(), tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
			assert.Equal(t, models.RoleUser, p.Role)
		})
	}
}

func TestGate_UsesStoredRole(t *testing.T) {
	iss := newTestIssuer(t)
	u := &models.User{ID: "22222222-2222-2222-2222-222222222222", Role: models.RoleAdmin}
	tok, _, err := iss.Mint(u)
	require.NoError(t, err)

	// Demoted after the token was minted.
	demoted := *u
	demoted.Role = models.RoleUser
	gate := NewGate(iss, &fakeIdentityStore{users: map[string]*models.User{u.ID: &demoted}})

	p, err := gate.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)
}

func TestGate_StoreError(t *testing.T) {
	iss := newTestIssuer(t)
	tok, _, err := iss.Mint(&models.User{ID: "33333333-3333-3333-3333-333333333333", Role: models.RoleUser})
	require.NoError(t, err)

	dbErr := errors.New("connection reset")
	gate := NewGate(iss, &fakeIdentityStore{err: dbErr})

	_, err = gate.Authenticate(context.Background(), "Bearer "+tok)
	require.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrPrincipalNotFound)
}

func TestGate_NonUUIDSubject(t *testing.T) {
	iss := newTestIssuer(t)
	tok, _, err := iss.Mint(&models.User{ID: "not-a-uuid", Role: models.RoleAdmin})
	require.NoError(t, err)

	// The store would fail on a non-UUID key; it must not be consulted.
	gate := NewGate(iss, &fakeIdentityStore{err: errors.New("invalid input syntax for type uuid")})

	_, err = gate.Authenticate(context.Background(), "Bearer "+tok)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestRequireRole(t *testing.T) {
	assert.ErrorIs(t, RequireRole(Principal{ID: "a", Role: models.RoleUser}, models.RoleAdmin), ErrForbidden)
	assert.NoError(t, RequireRole(Principal{ID: "a", Role: models.RoleAdmin}, models.RoleAdmin))
	assert.ErrorIs(t, RequireRole(Principal{}, models.RoleAdmin), ErrForbidden)
}

func TestCheckOwnership(t *testing.T) {
	const id = "2f0c7a4e-8d43-4a43-9d0a-1b5f7b6c2e11"

	tests := []struct {
		name    string
		p       Principal
		owner   string
		wantErr bool
	}{
		{name: "same id", p: Principal{ID: id}, owner: id},
		{name: "uppercase uuid", p: Principal{ID: id}, owner: strings.ToUpper(id)},
		{name: "braced uuid", p: Principal{ID: id}, owner: "{" + id + "}"},
		{name: "other owner", p: Principal{ID: id}, owner: "3f0c7a4e-8d43-4a43-9d0a-1b5f7b6c2e11", wantErr: true},
		{name: "admin is not exempt", p: Principal{ID: "x", Role: models.RoleAdmin}, owner: id, wantErr: true},
		{name: "empty principal", p: Principal{}, owner: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOwnership(tt.p, tt.owner)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = BearerToken("Token abc")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
