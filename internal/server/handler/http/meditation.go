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

// MeditationService defines the catalog operations required by MeditationHandler.
type MeditationService interface {
	List(ctx context.Context, category models.MeditationCategory) ([]models.Meditation, error)
	Get(ctx context.Context, id string) (*models.Meditation, error)
	Create(ctx context.Context, p auth.Principal, in service.MeditationInput) (*models.Meditation, error)
	Update(ctx context.Context, p auth.Principal, id string, in service.MeditationInput) (*models.Meditation, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// MeditationHandler serves the meditation catalog.
type MeditationHandler struct {
	MeditationService MeditationService
	Log               *zap.Logger
}

// MeditationRequest is the body of meditation create and update.
type MeditationRequest struct {
	Title           string                    `json:"title" validate:"required,max=200"`
	Description     string                    `json:"description" validate:"max=2000"`
	Category        models.MeditationCategory `json:"category" validate:"required"`
	DurationMinutes int                       `json:"duration_minutes" validate:"required,min=1,max=180"`
	AudioURL        string                    `json:"audio_url" validate:"omitempty,url"`
}

func (req MeditationRequest) input() service.MeditationInput {
	return service.MeditationInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		AudioURL:        req.AudioURL,
	}
}

// List handles GET /api/meditations?category=.
func (h *MeditationHandler) List(w http.ResponseWriter, r *http.Request) {
	category := models.MeditationCategory(r.URL.Query().Get("category"))
	list, err := h.MeditationService.List(r.Context(), category)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if list == nil {
		list = []models.Meditation{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/meditations/{id}.
func (h *MeditationHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.MeditationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Create handles POST /api/meditations.
func (h *MeditationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req MeditationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	m, err := h.MeditationService.Create(r.Context(), p, req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Update handles PUT /api/meditations/{id}.
func (h *MeditationHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	var req MeditationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	m, err := h.MeditationService.Update(r.Context(), p, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /api/meditations/{id}.
func (h *MeditationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if err := h.MeditationService.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
