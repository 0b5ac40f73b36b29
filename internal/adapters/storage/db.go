package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration is one forward-only schema step. Steps run inside a transaction
// and must be safe to re-run against a database created before versioning.
type migration struct {
	version     int
	description string
	statements  []string
}

// migrations is the ordered schema history. Append only.
var migrations = []migration{
	{
		version:     1,
		description: "plans, activities, tags",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS plan (
				id TEXT PRIMARY KEY,
				team_id TEXT NOT NULL,
				title TEXT NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				start_ms INTEGER NOT NULL,
				end_ms INTEGER NOT NULL,
				duration_minutes INTEGER NOT NULL,
				series_id TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_plan_team_start ON plan(team_id, start_ms)`,
			`CREATE INDEX IF NOT EXISTS idx_plan_series ON plan(series_id)`,
			`CREATE TABLE IF NOT EXISTS plan_activity (
				plan_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				name TEXT NOT NULL,
				duration_minutes INTEGER NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				tag_ids TEXT NOT NULL DEFAULT '[]',
				PRIMARY KEY (plan_id, position),
				FOREIGN KEY (plan_id) REFERENCES plan(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS tag (
				id TEXT PRIMARY KEY,
				team_id TEXT NOT NULL,
				name TEXT NOT NULL,
				color TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_tag_team_name ON tag(team_id, name COLLATE NOCASE)`,
		},
	},
	{
		version:     2,
		description: "period and template libraries",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS period (
				id TEXT PRIMARY KEY,
				team_id TEXT NOT NULL,
				name TEXT NOT NULL,
				duration_minutes INTEGER NOT NULL,
				notes TEXT NOT NULL DEFAULT '',
				tag_ids TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_period_team ON period(team_id)`,
			`CREATE TABLE IF NOT EXISTS template (
				id TEXT PRIMARY KEY,
				team_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				duration_minutes INTEGER NOT NULL DEFAULT 0,
				activities TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL,
				updated_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_template_team ON template(team_id)`,
		},
	},
	{
		version:     3,
		description: "announcements",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS announcement (
				id TEXT PRIMARY KEY,
				team_id TEXT NOT NULL,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				status TEXT NOT NULL,
				author_name TEXT NOT NULL DEFAULT '',
				pinned INTEGER NOT NULL DEFAULT 0,
				pinned_at TEXT,
				visible_from TEXT,
				visible_until TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT,
				published_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_announcement_team ON announcement(team_id, status)`,
		},
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for an unversioned database.
// PRE: db is a valid database connection
// POST: returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: all pending migrations applied and recorded in schema_version
func MigrateDB(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)`,
		m.version, m.description, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}
