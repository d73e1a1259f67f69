package store

import (
	"fmt"

	"go.uber.org/zap"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		db.log.Debug("migrated schema", zap.Int("version", 1))
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			language    TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS answers (
			session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			question_id INTEGER NOT NULL,
			choice      TEXT NOT NULL CHECK (choice IN ('A', 'B')),
			intensity   INTEGER NOT NULL CHECK (intensity BETWEEN 1 AND 3),
			answered_at TEXT NOT NULL,
			PRIMARY KEY (session_id, question_id)
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			taken_at    TEXT NOT NULL,
			result      TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS narratives (
			session_id      TEXT PRIMARY KEY REFERENCES sessions(id) ON DELETE CASCADE,
			language        TEXT NOT NULL,
			model           TEXT NOT NULL,
			markdown        TEXT NOT NULL,
			failed_chapters INTEGER NOT NULL DEFAULT 0,
			created_at      TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
