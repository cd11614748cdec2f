package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS modules (
		idx        INTEGER PRIMARY KEY CHECK(idx >= 0),
		name       TEXT NOT NULL,
		range_kind TEXT NOT NULL DEFAULT 'main'
		           CHECK(range_kind IN ('main','labs'))
	)`,

	`CREATE TABLE IF NOT EXISTS module_keywords (
		module_idx INTEGER NOT NULL REFERENCES modules(idx) ON DELETE CASCADE,
		keyword    TEXT NOT NULL,
		PRIMARY KEY (module_idx, keyword)
	)`,

	`CREATE TABLE IF NOT EXISTS lessons (
		module_idx INTEGER NOT NULL REFERENCES modules(idx) ON DELETE CASCADE,
		position   INTEGER NOT NULL CHECK(position >= 0),
		title      TEXT NOT NULL,
		duration   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (module_idx, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lessons_module ON lessons(module_idx)`,

	`CREATE TABLE IF NOT EXISTS embeddings (
		model      TEXT NOT NULL,
		text_hash  TEXT NOT NULL,
		dims       INTEGER NOT NULL,
		vector     BLOB NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (model, text_hash)
	)`,
}
