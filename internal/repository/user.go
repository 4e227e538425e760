// Package repository provides persistence implementations for accounts,
// mood entries, journal entries and meditations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/zenly/internal/models"
	"github.com/lib/pq"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresUserRepository implements account persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account. A duplicate email yields models.ErrConflict.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("CreateUser: email %q: %w", u.Email, models.ErrConflict)
		}
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// GetUserByID fetches an account by its identifier.
// Returns models.ErrNotFound if no such account exists.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches an account by its normalized email.
// Returns models.ErrNotFound if no such account exists.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

// ListUsers returns every account ordered by registration time.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

// UpdateUser persists the name, password hash, role and update time of u.
// Returns models.ErrNotFound if the account does not exist.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET name = $2, password_hash = $3, role = $4, updated_at = $5
		WHERE id = $1
	`, u.ID, u.Name, u.PasswordHash, u.Role, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}
	return expectAffected(res, "UpdateUser")
}

// DeleteUser removes an account; mood and journal entries cascade.
// Returns models.ErrNotFound if the account does not exist.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	return expectAffected(res, "DeleteUser")
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// expectAffected maps a zero row count to models.ErrNotFound.
func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
