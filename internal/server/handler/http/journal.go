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

// JournalService defines the journal operations required by JournalHandler.
type JournalService interface {
	Create(ctx context.Context, p auth.Principal, in service.JournalInput) (*models.JournalEntry, error)
	List(ctx context.Context, p auth.Principal) ([]models.JournalEntry, error)
	Get(ctx context.Context, p auth.Principal, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, p auth.Principal, id string, in service.JournalInput) (*models.JournalEntry, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// JournalHandler serves the caller's journal.
type JournalHandler struct {
	JournalService JournalService
	Log            *zap.Logger
}

// JournalRequest is the body of journal create and update.
type JournalRequest struct {
	Title   string      `json:"title" validate:"required,max=200"`
	Content string      `json:"content" validate:"required,max=20000"`
	Mood    models.Mood `json:"mood"`
}

func (req JournalRequest) input() service.JournalInput {
	return service.JournalInput{Title: req.Title, Content: req.Content, Mood: req.Mood}
}

// Create handles POST /api/journals.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req JournalRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	e, err := h.JournalService.Create(r.Context(), p, req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// List handles GET /api/journals.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	entries, err := h.JournalService.List(r.Context(), p)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Get handles GET /api/journals/{id}.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	e, err := h.JournalService.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Update handles PUT /api/journals/{id}.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req JournalRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	e, err := h.JournalService.Update(r.Context(), p, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /api/journals/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if err := h.JournalService.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
