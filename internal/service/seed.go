package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
	"go.uber.org/zap"
)

// SeedRepository is what the seeder needs from the store.
type SeedRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateMeditation(ctx context.Context, m *models.Meditation) error
}

// SeedOptions names the admin account created on first start.
type SeedOptions struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// StarterCatalog is the meditation catalog installed on a fresh store.
var StarterCatalog = []MeditationInput{
	{Title: "Box Breathing", Description: "Inhale, hold, exhale and hold again for four counts each.", Category: models.CategoryBreathing, DurationMinutes: 5},
	{Title: "Body Scan for Sleep", Description: "Release tension from head to toe before bed.", Category: models.CategorySleep, DurationMinutes: 20},
	{Title: "Single Point Focus", Description: "Rest attention on one anchor and return to it when it drifts.", Category: models.CategoryFocus, DurationMinutes: 10},
	{Title: "Stress Release", Description: "Notice, name and soften what is weighing on you.", Category: models.CategoryStress, DurationMinutes: 12},
	{Title: "Mindful Minute", Description: "A one-minute pause to arrive in the present.", Category: models.CategoryMindfulness, DurationMinutes: 1},
}

// Seeder installs the admin account and the starter catalog. Running it
// again leaves existing records untouched.
type Seeder struct {
	repo SeedRepository
	log  *zap.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(repo SeedRepository, log *zap.Logger) *Seeder {
	return &Seeder{repo: repo, log: log}
}

// Seed creates the admin account unless its email is taken, then adds each
// starter meditation whose title is not yet in the catalog.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) error {
	if err := s.seedAdmin(ctx, opts); err != nil {
		return err
	}

	added := 0
	for _, in := range StarterCatalog {
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
			if errors.Is(err, models.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed meditation %q: %w", in.Title, err)
		}
		added++
	}
	if added > 0 {
		s.log.Info("seeded meditation catalog", zap.Int("added", added))
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, opts SeedOptions) error {
	email := NormalizeEmail(opts.AdminEmail)
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	if err := validatePassword(opts.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	name := opts.AdminName
	if name == "" {
		name = "Admin"
	}

	now := nowFunc()
	err = s.repo.CreateUser(ctx, &models.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, models.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info("seeded admin account", zap.String("email", email))
	return nil
}
