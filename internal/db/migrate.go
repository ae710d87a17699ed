package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillUpdatedAt(db); err != nil {
		return fmt.Errorf("backfilling local_storage timestamps: %w", err)
	}
	return nil
}

// migrateBackfillUpdatedAt stamps rows written before updated_at existed
// so that pruning by age treats them as written at migration time.
func migrateBackfillUpdatedAt(db *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.Exec(`UPDATE local_storage SET updated_at = ? WHERE updated_at = ''`, now); err != nil {
		return err
	}
	return nil
}

var migrations = []string{
	// Key-value store with the semantics of browser localStorage. Values
	// are opaque strings; the preference store writes JSON blobs.
	`CREATE TABLE IF NOT EXISTS local_storage (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`ALTER TABLE local_storage ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_local_storage_updated ON local_storage(updated_at)`,
}
