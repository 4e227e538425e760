package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/zenly/internal/models"
)

// PostgresMeditationRepository implements the meditation catalog against a PostgreSQL database.
type PostgresMeditationRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMeditationRepository creates a new PostgresMeditationRepository using the provided *sql.DB.
func NewPostgresMeditationRepository(db *sql.DB) *PostgresMeditationRepository {
	return &PostgresMeditationRepository{DB: db}
}

const meditationColumns = `id, title, description, category, duration_minutes, audio_url, created_at, updated_at`

func scanMeditation(row interface{ Scan(...any) error }) (*models.Meditation, error) {
	var m models.Meditation
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Category, &m.DurationMinutes, &m.AudioURL, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeditation inserts a new catalog entry. A duplicate title yields models.ErrConflict.
func (r *PostgresMeditationRepository) CreateMeditation(ctx context.Context, m *models.Meditation) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO meditations (id, title, description, category, duration_minutes, audio_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.Title, m.Description, m.Category, m.DurationMinutes, m.AudioURL, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("CreateMeditation: title %q: %w", m.Title, models.ErrConflict)
		}
		return fmt.Errorf("CreateMeditation: %w", err)
	}
	return nil
}

// GetMeditation fetches a catalog entry by id.
// Returns models.ErrNotFound if no such entry exists.
func (r *PostgresMeditationRepository) GetMeditation(ctx context.Context, id string) (*models.Meditation, error) {
	m, err := scanMeditation(r.DB.QueryRowContext(ctx,
		`SELECT `+meditationColumns+` FROM meditations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("GetMeditation: %w", err)
	}
	return m, nil
}

// ListMeditations returns the catalog ordered by title. An empty category
// returns every entry.
func (r *PostgresMeditationRepository) ListMeditations(ctx context.Context, category models.MeditationCategory) ([]models.Meditation, error) {
	query := `SELECT ` + meditationColumns + ` FROM meditations`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY title`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListMeditations: %w", err)
	}
	defer rows.Close()

	list := []models.Meditation{}
	for rows.Next() {
		m, err := scanMeditation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		list = append(list, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListMeditations: %w", err)
	}
	return list, nil
}

// UpdateMeditation persists every mutable field of m.
func (r *PostgresMeditationRepository) UpdateMeditation(ctx context.Context, m *models.Meditation) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE meditations
		SET title = $2, description = $3, category = $4, duration_minutes = $5, audio_url = $6, updated_at = $7
		WHERE id = $1
	`, m.ID, m.Title, m.Description, m.Category, m.DurationMinutes, m.AudioURL, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("UpdateMeditation: title %q: %w", m.Title, models.ErrConflict)
		}
		return fmt.Errorf("UpdateMeditation: %w", err)
	}
	return expectAffected(res, "UpdateMeditation")
}

// DeleteMeditation removes a catalog entry.
func (r *PostgresMeditationRepository) DeleteMeditation(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM meditations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteMeditation: %w", err)
	}
	return expectAffected(res, "DeleteMeditation")
}
