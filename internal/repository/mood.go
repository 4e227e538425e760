package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/zenly/internal/models"
)

// PostgresMoodRepository implements mood entry persistence against a PostgreSQL database.
// Deletes are soft: rows get a deleted_at timestamp and disappear from every read.
type PostgresMoodRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMoodRepository creates a new PostgresMoodRepository using the provided *sql.DB.
func NewPostgresMoodRepository(db *sql.DB) *PostgresMoodRepository {
	return &PostgresMoodRepository{DB: db}
}

const moodColumns = `id, user_id, mood, intensity, note, created_at, updated_at`

func scanMood(row interface{ Scan(...any) error }) (*models.MoodEntry, error) {
	var e models.MoodEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Mood, &e.Intensity, &e.Note, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateMood inserts a new mood entry.
func (r *PostgresMoodRepository) CreateMood(ctx context.Context, e *models.MoodEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO mood_entries (id, user_id, mood, intensity, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.UserID, e.Mood, e.Intensity, e.Note, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateMood: %w", err)
	}
	return nil
}

// GetMood fetches a single live mood entry by id regardless of owner, so
// callers can tell a missing entry from one owned by someone else.
// Returns models.ErrNotFound if the entry does not exist or was deleted.
func (r *PostgresMoodRepository) GetMood(ctx context.Context, id string) (*models.MoodEntry, error) {
	e, err := scanMood(r.DB.QueryRowContext(ctx,
		`SELECT `+moodColumns+` FROM mood_entries WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("GetMood: %w", err)
	}
	return e, nil
}

// moodFilter builds the WHERE clause shared by ListMoods and MoodCounts.
// The owner filter is always the first condition.
func moodFilter(userID string, rng models.MoodRange) (string, []any) {
	conds := []string{"user_id = $1", "deleted_at IS NULL"}
	args := []any{userID}
	if !rng.From.IsZero() {
		args = append(args, rng.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !rng.To.IsZero() {
		args = append(args, rng.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// ListMoods returns the user's live mood entries, newest first.
func (r *PostgresMoodRepository) ListMoods(ctx context.Context, userID string, rng models.MoodRange) ([]models.MoodEntry, error) {
	where, args := moodFilter(userID, rng)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+moodColumns+` FROM mood_entries WHERE `+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("ListMoods: %w", err)
	}
	defer rows.Close()

	entries := []models.MoodEntry{}
	for rows.Next() {
		e, err := scanMood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListMoods: %w", err)
	}
	return entries, nil
}

// MoodCounts aggregates the user's live entries per mood.
func (r *PostgresMoodRepository) MoodCounts(ctx context.Context, userID string, rng models.MoodRange) (map[models.Mood]models.MoodTally, error) {
	where, args := moodFilter(userID, rng)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT mood, COUNT(*), COALESCE(SUM(intensity), 0) FROM mood_entries WHERE `+where+` GROUP BY mood`, args...)
	if err != nil {
		return nil, fmt.Errorf("MoodCounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Mood]models.MoodTally)
	for rows.Next() {
		var (
			mood       models.Mood
			count, sum int
		)
		if err := rows.Scan(&mood, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[mood] = models.MoodTally{Count: count, IntensitySum: sum}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MoodCounts: %w", err)
	}
	return counts, nil
}

// UpdateMood persists the payload of e. The owner column is never written.
// Returns models.ErrNotFound if the entry does not exist or was deleted.
func (r *PostgresMoodRepository) UpdateMood(ctx context.Context, e *models.MoodEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE mood_entries SET mood = $2, intensity = $3, note = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`, e.ID, e.Mood, e.Intensity, e.Note, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpdateMood: %w", err)
	}
	return expectAffected(res, "UpdateMood")
}

// DeleteMood soft-deletes a mood entry.
// Returns models.ErrNotFound if the entry does not exist or was already deleted.
func (r *PostgresMoodRepository) DeleteMood(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE mood_entries SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("DeleteMood: %w", err)
	}
	return expectAffected(res, "DeleteMood")
}
