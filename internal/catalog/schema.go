package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema mirrors migrations/0001_init.up.sql for the SQLite backend
// used by local-dev mode and the test suite. Kept in sync by hand; the two
// tables change rarely.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sections (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    name      TEXT NOT NULL,
    parent_id INTEGER NULL REFERENCES sections (id) ON DELETE CASCADE,
    position  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    section_id INTEGER NOT NULL REFERENCES sections (id) ON DELETE CASCADE,
    kind       TEXT NOT NULL CHECK (kind IN ('text', 'photo', 'document', 'video', 'audio', 'animation')),
    body       TEXT,
    file_id    TEXT,
    caption    TEXT,
    position   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sections_parent ON sections (parent_id);
CREATE INDEX IF NOT EXISTS idx_items_section ON items (section_id);
`

// EnsureSchema applies the SQLite schema and enables foreign-key cascades.
// PostgreSQL deployments use golang-migrate instead; see core/database.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
