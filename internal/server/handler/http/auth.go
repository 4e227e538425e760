// Package http provides the HTTP handlers and router of the Zenly API.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/atinyakov/zenly/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the account operations required by AuthHandler.
type AuthService interface {
	// Register creates a user account and returns a session for it.
	Register(ctx context.Context, name, email, password string) (*service.Session, error)
	// Login exchanges an email and password for a session.
	Login(ctx context.Context, email, password string) (*service.Session, error)
	// Me returns the caller's own account.
	Me(ctx context.Context, p auth.Principal) (*models.User, error)
}

// AuthHandler handles registration, login and the current-account lookup.
type AuthHandler struct {
	AuthService AuthService
	Log         *zap.Logger
}

// RegisterRequest represents the JSON payload for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register. On success it responds 201
// with the credential, its expiry and the new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	sess, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Login handles POST /api/auth/login. An unknown email and a wrong
// password get the same 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	u, err := h.AuthService.Me(r.Context(), p)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
