package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/zenly/internal/models"
)

// PostgresJournalRepository implements journal entry persistence against a PostgreSQL database.
type PostgresJournalRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresJournalRepository creates a new PostgresJournalRepository using the provided *sql.DB.
func NewPostgresJournalRepository(db *sql.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{DB: db}
}

const journalColumns = `id, user_id, title, content, mood, created_at, updated_at`

func scanJournal(row interface{ Scan(...any) error }) (*models.JournalEntry, error) {
	var e models.JournalEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Mood, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateJournal inserts a new journal entry.
func (r *PostgresJournalRepository) CreateJournal(ctx context.Context, e *models.JournalEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO journal_entries (id, user_id, title, content, mood, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.UserID, e.Title, e.Content, e.Mood, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateJournal: %w", err)
	}
	return nil
}

// GetJournal fetches a single live journal entry by id regardless of owner.
// Returns models.ErrNotFound if the entry does not exist or was deleted.
func (r *PostgresJournalRepository) GetJournal(ctx context.Context, id string) (*models.JournalEntry, error) {
	e, err := scanJournal(r.DB.QueryRowContext(ctx,
		`SELECT `+journalColumns+` FROM journal_entries WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("GetJournal: %w", err)
	}
	return e, nil
}

// ListJournals returns the user's live journal entries, newest first.
func (r *PostgresJournalRepository) ListJournals(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListJournals: %w", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListJournals: %w", err)
	}
	return entries, nil
}

// UpdateJournal persists the payload of e. The owner column is never written.
func (r *PostgresJournalRepository) UpdateJournal(ctx context.Context, e *models.JournalEntry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE journal_entries SET title = $2, content = $3, mood = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`, e.ID, e.Title, e.Content, e.Mood, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpdateJournal: %w", err)
	}
	return expectAffected(res, "UpdateJournal")
}

// DeleteJournal soft-deletes a journal entry.
func (r *PostgresJournalRepository) DeleteJournal(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE journal_entries SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("DeleteJournal: %w", err)
	}
	return expectAffected(res, "DeleteJournal")
}
