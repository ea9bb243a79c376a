package turso

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ledger_periods (
		period     TEXT PRIMARY KEY,
		budget     REAL NOT NULL,
		spend      REAL NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
