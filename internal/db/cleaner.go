package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// DefaultRetention is how long soft-deleted entries are kept before purging.
const DefaultRetention = 30 * 24 * time.Hour

// softDeleteTables lists the tables whose rows carry a deleted_at marker.
var softDeleteTables = []string{"mood_entries", "journal_entries"}

// StartSoftDeleteCleaner purges soft-deleted entries older than retention every interval
// until ctx is cancelled.
func StartSoftDeleteCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				PurgeSoftDeleted(ctx, db, time.Now().UTC().Add(-retention), log)
			}
		}
	}()
}

// PurgeSoftDeleted hard-deletes entries soft-deleted before cutoff and returns
// how many rows were removed. Failures are logged per table.
func PurgeSoftDeleted(ctx context.Context, db *sql.DB, cutoff time.Time, log *zap.Logger) int64 {
	var total int64
	for _, table := range softDeleteTables {
		res, err := db.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
		if err != nil {
			log.Error("failed to clean soft-deleted entries", zap.String("table", table), zap.Error(err))
			continue
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			log.Info("cleaned soft-deleted entries", zap.String("table", table), zap.Int64("removed", rows))
			total += rows
		}
	}
	return total
}
