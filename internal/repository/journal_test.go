package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/zenly/internal/models"
)

func setupJournalMock(t *testing.T) (*PostgresJournalRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresJournalRepository(db), mock, func() { db.Close() }
}

var journalCols = []string{"id", "user_id", "title", "content", "mood", "created_at", "updated_at"}

func TestCreateJournal_Error(t *testing.T) {
	repo, mock, cleanup := setupJournalMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO journal_entries`)).
		WillReturnError(errors.New("insert failed"))

	err := repo.CreateJournal(context.Background(), &models.JournalEntry{ID: "j1", UserID: "u1", Title: "t", Content: "c"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetJournal_Found(t *testing.T) {
	repo, mock, cleanup := setupJournalMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM journal_entries WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows(journalCols).AddRow("j1", "u1", "Day one", "Breathed.", "calm", now, now))

	e, err := repo.GetJournal(context.Background(), "j1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Title != "Day one" || e.Mood != models.MoodCalm {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestListJournals_Success(t *testing.T) {
	repo, mock, cleanup := setupJournalMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(journalCols).AddRow("j1", "u1", "t", "c", "", now, now))

	entries, err := repo.ListJournals(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestUpdateJournal_NotFound(t *testing.T) {
	repo, mock, cleanup := setupJournalMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journal_entries SET title = $2, content = $3, mood = $4, updated_at = $5 WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs("j9", "t", "c", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateJournal(context.Background(), &models.JournalEntry{ID: "j9", Title: "t", Content: "c"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteJournal_Success(t *testing.T) {
	repo, mock, cleanup := setupJournalMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journal_entries SET deleted_at = $2 WHERE id = $1`)).
		WithArgs("j1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteJournal(context.Background(), "j1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
