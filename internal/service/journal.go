package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
)

// JournalRepository defines the journal entry persistence operations.
type JournalRepository interface {
	CreateJournal(ctx context.Context, e *models.JournalEntry) error
	GetJournal(ctx context.Context, id string) (*models.JournalEntry, error)
	ListJournals(ctx context.Context, userID string) ([]models.JournalEntry, error)
	UpdateJournal(ctx context.Context, e *models.JournalEntry) error
	DeleteJournal(ctx context.Context, id string) error
}

// Journal entry limits.
const (
	MaxJournalTitleLen   = 200
	MaxJournalContentLen = 20000
)

// JournalInput is the writable part of a journal entry.
type JournalInput struct {
	Title   string
	Content string
	// Mood is optional; empty means none.
	Mood models.Mood
}

// JournalService manages the caller's journal entries.
type JournalService struct {
	repo      JournalRepository
	sanitizer TextSanitizer
}

// NewJournalService constructs a JournalService.
func NewJournalService(repo JournalRepository, sanitizer TextSanitizer) *JournalService {
	return &JournalService{repo: repo, sanitizer: sanitizer}
}

func (s *JournalService) clean(in JournalInput) (JournalInput, error) {
	in.Title = s.sanitizer.Text(in.Title)
	in.Content = s.sanitizer.Text(in.Content)
	in.Mood = models.Mood(strings.ToLower(strings.TrimSpace(string(in.Mood))))

	if err := checkLen("title", in.Title, 1, MaxJournalTitleLen); err != nil {
		return in, err
	}
	if err := checkLen("content", in.Content, 1, MaxJournalContentLen); err != nil {
		return in, err
	}
	if in.Mood != "" && !in.Mood.Valid() {
		return in, invalid("mood must be one of %v", models.Moods)
	}
	return in, nil
}

// Create stores a journal entry owned by p.
func (s *JournalService) Create(ctx context.Context, p auth.Principal, in JournalInput) (*models.JournalEntry, error) {
	in, err := s.clean(in)
	if err != nil {
		return nil, err
	}
	now := nowFunc()
	e := &models.JournalEntry{
		ID:        newID(),
		UserID:    p.ID,
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJournal(ctx, e); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	return e, nil
}

// List returns p's own journal entries, newest first.
func (s *JournalService) List(ctx context.Context, p auth.Principal) ([]models.JournalEntry, error) {
	return s.repo.ListJournals(ctx, p.ID)
}

// Get returns entry id if p owns it.
func (s *JournalService) Get(ctx context.Context, p auth.Principal, id string) (*models.JournalEntry, error) {
	return loadOwned(ctx, p, id, s.repo.GetJournal)
}

// Update replaces the payload of entry id. The owner never changes.
func (s *JournalService) Update(ctx context.Context, p auth.Principal, id string, in JournalInput) (*models.JournalEntry, error) {
	e, err := loadOwned(ctx, p, id, s.repo.GetJournal)
	if err != nil {
		return nil, err
	}
	in, err = s.clean(in)
	if err != nil {
		return nil, err
	}
	e.Title, e.Content, e.Mood = in.Title, in.Content, in.Mood
	e.UpdatedAt = nowFunc()
	if err := s.repo.UpdateJournal(ctx, e); err != nil {
		return nil, fmt.Errorf("update journal: %w", err)
	}
	return e, nil
}

// Delete removes entry id if p owns it.
func (s *JournalService) Delete(ctx context.Context, p auth.Principal, id string) error {
	e, err := loadOwned(ctx, p, id, s.repo.GetJournal)
	if err != nil {
		return err
	}
	return s.repo.DeleteJournal(ctx, e.ID)
}
