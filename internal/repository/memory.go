package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atinyakov/zenly/internal/models"
)

// MemoryStore keeps every collection in process memory. It is used when no
// database DSN is configured and by tests. It mirrors the Postgres
// repositories: deleted entries are gone from every read, emails and
// meditation titles are unique, and deleting a user removes their entries.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]models.User
	moods       map[string]models.MoodEntry
	journals    map[string]models.JournalEntry
	meditations map[string]models.Meditation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]models.User),
		moods:       make(map[string]models.MoodEntry),
		journals:    make(map[string]models.JournalEntry),
		meditations: make(map[string]models.Meditation),
	}
}

// CreateUser stores a new account.
func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("CreateUser: email %q: %w", u.Email, models.ErrConflict)
		}
	}
	s.users[u.ID] = *u
	return nil
}

// GetUserByID returns a copy of the account with the given id.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail returns a copy of the account with the given email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

// ListUsers returns every account ordered by registration time.
func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// UpdateUser replaces the mutable fields of an existing account.
func (s *MemoryStore) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return models.ErrNotFound
	}
	existing.Name = u.Name
	existing.PasswordHash = u.PasswordHash
	existing.Role = u.Role
	existing.UpdatedAt = u.UpdatedAt
	s.users[u.ID] = existing
	return nil
}

// DeleteUser removes an account together with its mood and journal entries.
func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.users, id)
	for k, e := range s.moods {
		if e.UserID == id {
			delete(s.moods, k)
		}
	}
	for k, e := range s.journals {
		if e.UserID == id {
			delete(s.journals, k)
		}
	}
	return nil
}

// CreateMood stores a new mood entry.
func (s *MemoryStore) CreateMood(_ context.Context, e *models.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moods[e.ID] = *e
	return nil
}

// GetMood returns a copy of the mood entry with the given id.
func (s *MemoryStore) GetMood(_ context.Context, id string) (*models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.moods[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func inRange(e models.MoodEntry, rng models.MoodRange) bool {
	if !rng.From.IsZero() && e.CreatedAt.Before(rng.From) {
		return false
	}
	if !rng.To.IsZero() && e.CreatedAt.After(rng.To) {
		return false
	}
	return true
}

// newerFirst orders by creation time descending, then by id so entries
// created in the same instant keep a stable order.
func newerFirst(ti time.Time, idi string, tj time.Time, idj string) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi > idj
}

// ListMoods returns the user's mood entries within rng, newest first.
func (s *MemoryStore) ListMoods(_ context.Context, userID string, rng models.MoodRange) ([]models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.MoodEntry{}
	for _, e := range s.moods {
		if e.UserID == userID && inRange(e, rng) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return newerFirst(entries[i].CreatedAt, entries[i].ID, entries[j].CreatedAt, entries[j].ID)
	})
	return entries, nil
}

// MoodCounts aggregates the user's mood entries within rng per mood.
func (s *MemoryStore) MoodCounts(_ context.Context, userID string, rng models.MoodRange) (map[models.Mood]models.MoodTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Mood]models.MoodTally)
	for _, e := range s.moods {
		if e.UserID != userID || !inRange(e, rng) {
			continue
		}
		t := counts[e.Mood]
		t.Count++
		t.IntensitySum += e.Intensity
		counts[e.Mood] = t
	}
	return counts, nil
}

// UpdateMood replaces the payload of an existing entry, keeping its owner.
func (s *MemoryStore) UpdateMood(_ context.Context, e *models.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.moods[e.ID]
	if !ok {
		return models.ErrNotFound
	}
	existing.Mood = e.Mood
	existing.Intensity = e.Intensity
	existing.Note = e.Note
	existing.UpdatedAt = e.UpdatedAt
	s.moods[e.ID] = existing
	return nil
}

// DeleteMood removes a mood entry.
func (s *MemoryStore) DeleteMood(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moods[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.moods, id)
	return nil
}

// CreateJournal stores a new journal entry.
func (s *MemoryStore) CreateJournal(_ context.Context, e *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals[e.ID] = *e
	return nil
}

// GetJournal returns a copy of the journal entry with the given id.
func (s *MemoryStore) GetJournal(_ context.Context, id string) (*models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.journals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

// ListJournals returns the user's journal entries, newest first.
func (s *MemoryStore) ListJournals(_ context.Context, userID string) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.JournalEntry{}
	for _, e := range s.journals {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return newerFirst(entries[i].CreatedAt, entries[i].ID, entries[j].CreatedAt, entries[j].ID)
	})
	return entries, nil
}

// UpdateJournal replaces the payload of an existing entry, keeping its owner.
func (s *MemoryStore) UpdateJournal(_ context.Context, e *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.journals[e.ID]
	if !ok {
		return models.ErrNotFound
	}
	existing.Title = e.Title
	existing.Content = e.Content
	existing.Mood = e.Mood
	existing.UpdatedAt = e.UpdatedAt
	s.journals[e.ID] = existing
	return nil
}

// DeleteJournal removes a journal entry.
func (s *MemoryStore) DeleteJournal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.journals[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.journals, id)
	return nil
}

// CreateMeditation stores a new catalog entry.
func (s *MemoryStore) CreateMeditation(_ context.Context, m *models.Meditation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.meditations {
		if existing.Title == m.Title {
			return fmt.Errorf("CreateMeditation: title %q: %w", m.Title, models.ErrConflict)
		}
	}
	s.meditations[m.ID] = *m
	return nil
}

// GetMeditation returns a copy of the catalog entry with the given id.
func (s *MemoryStore) GetMeditation(_ context.Context, id string) (*models.Meditation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meditations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &m, nil
}

// ListMeditations returns the catalog ordered by title, optionally filtered by category.
func (s *MemoryStore) ListMeditations(_ context.Context, category models.MeditationCategory) ([]models.Meditation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []models.Meditation{}
	for _, m := range s.meditations {
		if category == "" || m.Category == category {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })
	return list, nil
}

// UpdateMeditation replaces an existing catalog entry.
func (s *MemoryStore) UpdateMeditation(_ context.Context, m *models.Meditation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.meditations[m.ID]
	if !ok {
		return models.ErrNotFound
	}
	for id, other := range s.meditations {
		if id != m.ID && other.Title == m.Title {
			return fmt.Errorf("UpdateMeditation: title %q: %w", m.Title, models.ErrConflict)
		}
	}
	m.CreatedAt = existing.CreatedAt
	s.meditations[m.ID] = *m
	return nil
}

// DeleteMeditation removes a catalog entry.
func (s *MemoryStore) DeleteMeditation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meditations[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.meditations, id)
	return nil
}
