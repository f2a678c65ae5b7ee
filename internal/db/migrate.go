package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tracks (
		id                   TEXT PRIMARY KEY,
		key                  TEXT NOT NULL UNIQUE,
		name                 TEXT NOT NULL,
		name_alt             TEXT NOT NULL DEFAULT '',
		description          TEXT NOT NULL DEFAULT '',
		description_extended TEXT NOT NULL DEFAULT '',
		color                TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS scope_nodes (
		id          TEXT PRIMARY KEY,
		track_id    TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES scope_nodes(id) ON DELETE CASCADE,
		code        TEXT NOT NULL,
		title       TEXT NOT NULL,
		title_alt   TEXT NOT NULL DEFAULT '',
		body        TEXT NOT NULL DEFAULT '',
		body_alt    TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		progress    REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','completed')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(track_id, code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scope_nodes_track ON scope_nodes(track_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_scope_nodes_parent ON scope_nodes(parent_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		track_id   TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending'
		           CHECK(status IN ('pending','in_progress','completed')),
		progress   REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_track ON tasks(track_id)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id           TEXT PRIMARY KEY,
		track_id     TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_track ON reports(track_id)`,

	`CREATE TABLE IF NOT EXISTS kpi_entries (
		id           TEXT PRIMARY KEY,
		track_id     TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		actual_value REAL NOT NULL DEFAULT 0,
		target_value REAL NOT NULL DEFAULT 0 CHECK(target_value >= 0),
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kpi_entries_track ON kpi_entries(track_id)`,

	`CREATE TABLE IF NOT EXISTS track_kpis (
		id         TEXT PRIMARY KEY,
		track_id   TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		name_alt   TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_track_kpis_track ON track_kpis(track_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS penalties (
		id            TEXT PRIMARY KEY,
		track_id      TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		violation     TEXT NOT NULL,
		violation_alt TEXT NOT NULL DEFAULT '',
		severity      TEXT NOT NULL DEFAULT 'low'
		              CHECK(severity IN ('low','medium','high')),
		resolved      INTEGER NOT NULL DEFAULT 0,
		sort_order    INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_penalties_track ON penalties(track_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS records (
		id         TEXT PRIMARY KEY,
		track_id   TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		title_alt  TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'pending'
		           CHECK(status IN ('pending','in_progress','completed')),
		progress   REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_track ON records(track_id)`,
}
