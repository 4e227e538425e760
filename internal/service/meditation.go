package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// MeditationRepository defines the meditation catalog persistence operations.
type MeditationRepository interface {
	CreateMeditation(ctx context.Context, m *models.Meditation) error
	GetMeditation(ctx context.Context, id string) (*models.Meditation, error)
	// ListMeditations filters by category unless it is empty.
	ListMeditations(ctx context.Context, category models.MeditationCategory) ([]models.Meditation, error)
	UpdateMeditation(ctx context.Context, m *models.Meditation) error
	DeleteMeditation(ctx context.Context, id string) error
}

// Meditation limits.
const (
	MaxMeditationTitleLen       = 200
	MaxMeditationDescriptionLen = 2000
	MinMeditationMinutes        = 1
	MaxMeditationMinutes        = 180
)

// MeditationInput is the writable part of a meditation.
type MeditationInput struct {
	Title           string
	Description     string
	Category        models.MeditationCategory
	DurationMinutes int
	AudioURL        string
}

// MeditationService serves the shared catalog. Reads are open to every
// principal; writes require the admin role.
type MeditationService struct {
	repo      MeditationRepository
	sanitizer TextSanitizer
}

// NewMeditationService constructs a MeditationService.
func NewMeditationService(repo MeditationRepository, sanitizer TextSanitizer) *MeditationService {
	return &MeditationService{repo: repo, sanitizer: sanitizer}
}

func parseCategory(c models.MeditationCategory) (models.MeditationCategory, error) {
	c = models.MeditationCategory(strings.ToLower(strings.TrimSpace(string(c))))
	if !c.Valid() {
		return c, invalid("category must be one of %v", models.Categories)
	}
	return c, nil
}

func (s *MeditationService) clean(in MeditationInput) (MeditationInput, error) {
	in.Title = s.sanitizer.Text(in.Title)
	in.Description = s.sanitizer.Text(in.Description)
	in.AudioURL = strings.TrimSpace(in.AudioURL)

	if err := checkLen("title", in.Title, 1, MaxMeditationTitleLen); err != nil {
		return in, err
	}
	if err := checkLen("description", in.Description, 0, MaxMeditationDescriptionLen); err != nil {
		return in, err
	}
	c, err := parseCategory(in.Category)
	if err != nil {
		return in, err
	}
	in.Category = c
	if in.DurationMinutes < MinMeditationMinutes || in.DurationMinutes > MaxMeditationMinutes {
		return in, invalid("duration_minutes must be between %d and %d", MinMeditationMinutes, MaxMeditationMinutes)
	}
	if in.AudioURL != "" {
		u, err := url.Parse(in.AudioURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return in, invalid("audio_url must be an http or https URL")
		}
	}
	return in, nil
}

// List returns the catalog, optionally narrowed to one category.
func (s *MeditationService) List(ctx context.Context, category models.MeditationCategory) ([]models.Meditation, error) {
	if category != "" {
		c, err := parseCategory(category)
		if err != nil {
			return nil, err
		}
		category = c
	}
	return s.repo.ListMeditations(ctx, category)
}

// Get returns meditation id.
func (s *MeditationService) Get(ctx context.Context, id string) (*models.Meditation, error) {
	cid, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetMeditation(ctx, cid)
}

// Create adds a meditation. Admin only.
func (s *MeditationService) Create(ctx context.Context, p auth.Principal, in MeditationInput) (*models.Meditation, error) {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	in, err := s.clean(in)
	if err != nil {
		return nil, err
	}
	now := nowFunc()
	m := &models.Meditation{
		ID:              newID(),
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		DurationMinutes: in.DurationMinutes,
		AudioURL:        in.AudioURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateMeditation(ctx, m); err != nil {
		return nil, fmt.Errorf("create meditation: %w", err)
	}
	return m, nil
}

// Update replaces meditation id. Admin only.
func (s *MeditationService) Update(ctx context.Context, p auth.Principal, id string, in MeditationInput) (*models.Meditation, error) {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = s.clean(in)
	if err != nil {
		return nil, err
	}
	m.Title, m.Description, m.Category = in.Title, in.Description, in.Category
	m.DurationMinutes, m.AudioURL = in.DurationMinutes, in.AudioURL
	m.UpdatedAt = nowFunc()
	if err := s.repo.UpdateMeditation(ctx, m); err != nil {
		return nil, fmt.Errorf("update meditation: %w", err)
	}
	return m, nil
}

// Delete removes meditation id. Admin only.
func (s *MeditationService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := auth.RequireRole(p, models.RoleAdmin); err != nil {
		return err
	}
	cid, err := canonicalID(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteMeditation(ctx, cid)
}
