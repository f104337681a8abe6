package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS member (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				department TEXT NOT NULL DEFAULT '',
				team TEXT NOT NULL CHECK (team IN ('A','B','C','D','E','F')),
				best_10km TEXT NOT NULL DEFAULT '',
				best_half TEXT NOT NULL DEFAULT '',
				best_full TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS running_record (
				id TEXT PRIMARY KEY,
				member_id TEXT NOT NULL,
				running_date TEXT NOT NULL,
				distance REAL NOT NULL DEFAULT 0,
				running_time TEXT NOT NULL DEFAULT '00:00:00',
				pace TEXT NOT NULL DEFAULT '',
				memo TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS weekly_mission (
				id TEXT PRIMARY KEY,
				year INTEGER NOT NULL,
				week_number INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 1,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				target_distance REAL,
				created_at TEXT NOT NULL,
				CHECK (end_date >= start_date)
			)`,
			`CREATE TABLE IF NOT EXISTS mission_detail (
				mission_id TEXT NOT NULL,
				team TEXT NOT NULL,
				weekday TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				target_distance REAL,
				PRIMARY KEY (mission_id, team, weekday),
				FOREIGN KEY (mission_id) REFERENCES weekly_mission(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		version: 2,
		name:    "lookup_indexes",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_running_record_member_date ON running_record(member_id, running_date)`,
			`CREATE INDEX IF NOT EXISTS idx_running_record_date ON running_record(running_date, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_member_team ON member(team, name)`,
			`CREATE INDEX IF NOT EXISTS idx_weekly_mission_year_week ON weekly_mission(year, week_number)`,
		},
	},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for a fresh database.
// PRE: db is a valid database connection
// POST: Returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies pending migrations, each in its own transaction.
// A file-backed database that already holds data is copied to
// "<path>.v<N>.bak" before the first pending step runs.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}
	if current > 0 {
		if err := backupDB(db, path, current); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func backupDB(db *sql.DB, path string, version int) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dest := fmt.Sprintf("%s.v%d.bak", path, version)
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("backup before migration: %w", err)
	}
	slog.Info("schema_backup", "path", dest, "version", version)
	return nil
}
