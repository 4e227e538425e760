package db

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestStartSoftDeleteCleaner_Success(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM mood_entries").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM journal_entries").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartSoftDeleteCleaner(ctx, dbMock, 10*time.Millisecond, time.Hour, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartSoftDeleteCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM mood_entries").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("db fail"))

	var buf bytes.Buffer
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(&buf),
		zapcore.ErrorLevel,
	)
	logger := zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartSoftDeleteCleaner(ctx, dbMock, 10*time.Millisecond, time.Hour, logger)

	time.Sleep(200 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "failed to clean soft-deleted entries") {
		t.Errorf("expected error log, got:\n%s", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStartSoftDeleteCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())

	StartSoftDeleteCleaner(ctx, dbMock, 100*time.Millisecond, time.Hour, logger)
	cancel()

	time.Sleep(50 * time.Millisecond)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}

func TestPurgeSoftDeleted_UsesCutoff(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	cutoff := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM mood_entries WHERE deleted_at IS NOT NULL AND deleted_at < \\$1").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM journal_entries WHERE deleted_at IS NOT NULL AND deleted_at < \\$1").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 5))

	removed := PurgeSoftDeleted(context.Background(), dbMock, cutoff, zap.NewNop())
	if removed != 7 {
		t.Errorf("removed = %d, want 7", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPurgeSoftDeleted_ContinuesAfterFailure(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM mood_entries").
		WillReturnError(fmt.Errorf("locked"))
	mock.ExpectExec("DELETE FROM journal_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed := PurgeSoftDeleted(context.Background(), dbMock, time.Now(), zap.NewNop())
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
