package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/atinyakov/zenly/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService defines the account management operations required by UserHandler.
type UserService interface {
	UpdateProfile(ctx context.Context, p auth.Principal, upd service.ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context, p auth.Principal) ([]models.User, error)
	UpdateRole(ctx context.Context, p auth.Principal, id string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, p auth.Principal, id string) error
}

// UserHandler serves profile edits and user administration.
type UserHandler struct {
	UserService UserService
	Log         *zap.Logger
}

// ProfileRequest carries the optional profile changes.
type ProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// RoleRequest sets an account's role.
type RoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=user admin"`
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req ProfileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	u, err := h.UserService.UpdateProfile(r.Context(), p, service.ProfileUpdate{Name: req.Name, Password: req.Password})
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	users, err := h.UserService.ListUsers(r.Context(), p)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateRole handles PUT /api/users/{id}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req RoleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	u, err := h.UserService.UpdateRole(r.Context(), p, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/users/{id}. The account's entries go with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if err := h.UserService.DeleteUser(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
