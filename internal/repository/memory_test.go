package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/zenly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &models.User{ID: "u1", Name: "Alice", Email: "alice@zenly.com", Role: models.RoleUser}
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.CreateUser(ctx, &models.User{ID: "u2", Email: "alice@zenly.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	got, err := s.GetUserByEmail(ctx, "alice@zenly.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got.Name = "mutated"
	again, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name, "returned values must be copies")

	require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: "m1", UserID: "u1", Mood: models.MoodCalm}))
	require.NoError(t, s.DeleteUser(ctx, "u1"))

	_, err = s.GetMood(ctx, "m1")
	assert.ErrorIs(t, err, models.ErrNotFound, "entries cascade with their owner")
	assert.ErrorIs(t, s.DeleteUser(ctx, "u1"), models.ErrNotFound)
}

func TestMemoryStore_MoodsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: "a1", UserID: "a", Mood: models.MoodHappy, Intensity: 8, CreatedAt: base}))
	require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: "a2", UserID: "a", Mood: models.MoodHappy, Intensity: 6, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: "b1", UserID: "b", Mood: models.MoodSad, Intensity: 3, CreatedAt: base}))

	list, err := s.ListMoods(ctx, "a", models.MoodRange{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].ID, "newest first")

	list, err = s.ListMoods(ctx, "a", models.MoodRange{From: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, list, 1)

	counts, err := s.MoodCounts(ctx, "a", models.MoodRange{})
	require.NoError(t, err)
	assert.Equal(t, models.MoodTally{Count: 2, IntensitySum: 14}, counts[models.MoodHappy])
	assert.NotContains(t, counts, models.MoodSad)
}

func TestMemoryStore_UpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateJournal(ctx, &models.JournalEntry{ID: "j1", UserID: "a", Title: "t"}))

	require.NoError(t, s.UpdateJournal(ctx, &models.JournalEntry{ID: "j1", UserID: "b", Title: "new"}))
	got, err := s.GetJournal(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.UserID)
	assert.Equal(t, "new", got.Title)

	err = s.UpdateJournal(ctx, &models.JournalEntry{ID: "missing"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestMemoryStore_MeditationTitlesUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateMeditation(ctx, &models.Meditation{ID: "1", Title: "Box Breathing", Category: models.CategoryBreathing}))
	require.NoError(t, s.CreateMeditation(ctx, &models.Meditation{ID: "2", Title: "Body Scan", Category: models.CategoryMindfulness}))

	assert.ErrorIs(t, s.CreateMeditation(ctx, &models.Meditation{ID: "3", Title: "Body Scan"}), models.ErrConflict)
	assert.ErrorIs(t, s.UpdateMeditation(ctx, &models.Meditation{ID: "1", Title: "Body Scan"}), models.ErrConflict)

	list, err := s.ListMeditations(ctx, models.CategoryBreathing)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Box Breathing", list[0].Title)
}

func TestMemoryStore_SameInstantOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for _, id := range []string{"c", "a", "d", "b"} {
		require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: id, UserID: "u", Mood: models.MoodCalm, CreatedAt: at}))
		require.NoError(t, s.CreateJournal(ctx, &models.JournalEntry{ID: id, UserID: "u", Title: id, CreatedAt: at}))
	}
	require.NoError(t, s.CreateMood(ctx, &models.MoodEntry{ID: "a0", UserID: "u", Mood: models.MoodCalm, CreatedAt: at.Add(time.Second)}))

	for i := 0; i < 5; i++ {
		moods, err := s.ListMoods(ctx, "u", models.MoodRange{})
		require.NoError(t, err)
		var ids []string
		for _, e := range moods {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"a0", "d", "c", "b", "a"}, ids)

		journals, err := s.ListJournals(ctx, "u")
		require.NoError(t, err)
		ids = ids[:0]
		for _, e := range journals {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
	}
}
