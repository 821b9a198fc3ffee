// Package store persists parsed runs in a SQLite index so many runs can be
// listed and compared without re-parsing their directories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the run index.
const schemaV1 = `
-- One row per indexed run directory
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dir TEXT NOT NULL UNIQUE,
    input_file TEXT NOT NULL DEFAULT '',
    indexed_at TEXT NOT NULL
);

-- Scalar summary entries, one row per (section, key)
CREATE TABLE IF NOT EXISTS summary_values (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    section TEXT NOT NULL,     -- 'general', 'total', 'network_accessible'
    key TEXT NOT NULL,
    value REAL NOT NULL,
    is_int INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, section, key)
);
CREATE INDEX IF NOT EXISTS idx_summary_key ON summary_values(section, key);

-- Joined pore-size-distribution rows; network=1 for the
-- network-accessible table
CREATE TABLE IF NOT EXISTS psd_rows (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    network INTEGER NOT NULL,
    d REAL NOT NULL,
    volume_fraction REAL,
    derivative REAL,
    PRIMARY KEY (run_id, network, d)
);

CREATE TABLE IF NOT EXISTS schema_meta (
    version INTEGER NOT NULL
);
`

// InitSchema creates the schema if it does not exist and records the
// schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_meta LIMIT 1`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_meta (version) VALUES (?)`, SchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case version != SchemaVersion:
		return fmt.Errorf("unsupported schema version %d (want %d)", version, SchemaVersion)
	}
	return nil
}
