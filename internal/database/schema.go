package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// projectsSchema creates the projects table. Kept portable between
// PostgreSQL and SQLite so the repository tests can run against an
// in-memory database.
const projectsSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id             TEXT PRIMARY KEY,
	marketplace    TEXT NOT NULL,
	title          TEXT NOT NULL,
	link           TEXT NOT NULL UNIQUE,
	price          INTEGER NOT NULL DEFAULT 0,
	currency       TEXT NOT NULL DEFAULT '',
	bid_message    TEXT,
	is_bid_placed  BOOLEAN NOT NULL DEFAULT FALSE,
	is_bid_skipped BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_active
	ON projects (created_at, id)
	WHERE is_bid_placed = FALSE AND is_bid_skipped = FALSE;
`

// Migrate applies the schema to the given database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, projectsSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
