package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// MoodRepository defines the mood entry persistence operations.
// Reads of a single entry are not owner-scoped; collection reads are.
type MoodRepository interface {
	CreateMood(ctx context.Context, e *models.MoodEntry) error
	GetMood(ctx context.Context, id string) (*models.MoodEntry, error)
	ListMoods(ctx context.Context, userID string, rng models.MoodRange) ([]models.MoodEntry, error)
	MoodCounts(ctx context.Context, userID string, rng models.MoodRange) (map[models.Mood]models.MoodTally, error)
	UpdateMood(ctx context.Context, e *models.MoodEntry) error
	DeleteMood(ctx context.Context, id string) error
}

// Mood entry limits.
const (
	MinIntensity   = 1
	MaxIntensity   = 10
	MaxMoodNoteLen = 1000
)

// MoodInput is the writable part of a mood entry.
type MoodInput struct {
	Mood      models.Mood
	Intensity int
	Note      string
}

// MoodService manages the caller's mood entries.
type MoodService struct {
	repo      MoodRepository
	sanitizer TextSanitizer
}

// NewMoodService constructs a MoodService.
func NewMoodService(repo MoodRepository, sanitizer TextSanitizer) *MoodService {
	return &MoodService{repo: repo, sanitizer: sanitizer}
}

func (s *MoodService) clean(in MoodInput) (MoodInput, error) {
	in.Mood = models.Mood(strings.ToLower(strings.TrimSpace(string(in.Mood))))
	if !in.Mood.Valid() {
		return in, invalid("mood must be one of %v", models.Moods)
	}
	if in.Intensity < MinIntensity || in.Intensity > MaxIntensity {
		return in, invalid("intensity must be between %d and %d", MinIntensity, MaxIntensity)
	}
	in.Note = s.sanitizer.Text(in.Note)
	if err := checkLen("note", in.Note, 0, MaxMoodNoteLen); err != nil {
		return in, err
	}
	return in, nil
}

func checkRange(rng models.MoodRange) error {
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.From.After(rng.To) {
		return invalid("from must not be after to")
	}
	return nil
}

// Create records a mood entry owned by p.
func (s *MoodService) Create(ctx context.Context, p auth.Principal, in MoodInput) (*models.MoodEntry, error) {
	in, err := s.clean(in)
	if err != nil {
		return nil, err
	}
	now := nowFunc()
	e := &models.MoodEntry{
		ID:        newID(),
		UserID:    p.ID,
		Mood:      in.Mood,
		Intensity: in.Intensity,
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMood(ctx, e); err != nil {
		return nil, fmt.Errorf("create mood: %w", err)
	}
	return e, nil
}

// List returns p's own entries, newest first.
func (s *MoodService) List(ctx context.Context, p auth.Principal, rng models.MoodRange) ([]models.MoodEntry, error) {
	if err := checkRange(rng); err != nil {
		return nil, err
	}
	return s.repo.ListMoods(ctx, p.ID, rng)
}

// Get returns entry id if p owns it.
func (s *MoodService) Get(ctx context.Context, p auth.Principal, id string) (*models.MoodEntry, error) {
	return loadOwned(ctx, p, id, s.repo.GetMood)
}

// Update replaces the payload of entry id. The owner never changes.
func (s *MoodService) Update(ctx context.Context, p auth.Principal, id string, in MoodInput) (*models.MoodEntry, error) {
	e, err := loadOwned(ctx, p, id, s.repo.GetMood)
	if err != nil {
		return nil, err
	}
	in, err = s.clean(in)
	if err != nil {
		return nil, err
	}
	e.Mood, e.Intensity, e.Note = in.Mood, in.Intensity, in.Note
	e.UpdatedAt = nowFunc()
	if err := s.repo.UpdateMood(ctx, e); err != nil {
		return nil, fmt.Errorf("update mood: %w", err)
	}
	return e, nil
}

// Delete removes entry id if p owns it.
func (s *MoodService) Delete(ctx context.Context, p auth.Principal, id string) error {
	e, err := loadOwned(ctx, p, id, s.repo.GetMood)
	if err != nil {
		return err
	}
	return s.repo.DeleteMood(ctx, e.ID)
}

// Stats summarizes p's entries in rng: a count for every mood (zero when
// absent) and the average intensity rounded to two decimals.
func (s *MoodService) Stats(ctx context.Context, p auth.Principal, rng models.MoodRange) (*models.MoodStats, error) {
	if err := checkRange(rng); err != nil {
		return nil, err
	}
	tallies, err := s.repo.MoodCounts(ctx, p.ID, rng)
	if err != nil {
		return nil, fmt.Errorf("mood stats: %w", err)
	}

	stats := &models.MoodStats{Counts: make(map[models.Mood]int, len(models.Moods))}
	sum := 0
	for _, m := range models.Moods {
		t := tallies[m]
		stats.Counts[m] = t.Count
		stats.Total += t.Count
		sum += t.IntensitySum
	}
	if stats.Total > 0 {
		stats.AverageIntensity = math.Round(float64(sum)/float64(stats.Total)*100) / 100
	}
	return stats, nil
}
