package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: older deployments stored items without a photo URL;
	// backfill the column for databases created before it existed.
	`ALTER TABLE items ADD COLUMN photo_url TEXT`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			// "duplicate column name" means the migration already ran;
			// SQLite has no ADD COLUMN IF NOT EXISTS.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
