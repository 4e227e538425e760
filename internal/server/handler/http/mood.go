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

// MoodService defines the mood entry operations required by MoodHandler.
type MoodService interface {
	Create(ctx context.Context, p auth.Principal, in service.MoodInput) (*models.MoodEntry, error)
	List(ctx context.Context, p auth.Principal, rng models.MoodRange) ([]models.MoodEntry, error)
	Get(ctx context.Context, p auth.Principal, id string) (*models.MoodEntry, error)
	Update(ctx context.Context, p auth.Principal, id string, in service.MoodInput) (*models.MoodEntry, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	Stats(ctx context.Context, p auth.Principal, rng models.MoodRange) (*models.MoodStats, error)
}

// MoodHandler serves the caller's mood entries.
type MoodHandler struct {
	MoodService MoodService
	Log         *zap.Logger
}

// MoodRequest is the body of mood create and update. Update replaces the
// whole payload.
type MoodRequest struct {
	Mood      models.Mood `json:"mood" validate:"required"`
	Intensity int         `json:"intensity" validate:"required,min=1,max=10"`
	Note      string      `json:"note" validate:"max=1000"`
}

func (req MoodRequest) input() service.MoodInput {
	return service.MoodInput{Mood: req.Mood, Intensity: req.Intensity, Note: req.Note}
}

// Create handles POST /api/moods.
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req MoodRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	e, err := h.MoodService.Create(r.Context(), p, req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// List handles GET /api/moods?from=&to=.
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	entries, err := h.MoodService.List(r.Context(), p, rng)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Stats handles GET /api/moods/stats?from=&to=.
func (h *MoodHandler) Stats(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	stats, err := h.MoodService.Stats(r.Context(), p, rng)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /api/moods/{id}.
func (h *MoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	e, err := h.MoodService.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Update handles PUT /api/moods/{id}.
func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req MoodRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	e, err := h.MoodService.Update(r.Context(), p, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /api/moods/{id}.
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if err := h.MoodService.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
