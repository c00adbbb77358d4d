// Package migration applies versioned schema migrations to a SQL
// database. Migrations are compiled in; the schema_migrations table
// records what has been applied.
package migration

import (
	"database/sql"
	"fmt"
	"sort"
)

type Migration struct {
	Version int
	Name    string
	SQL     string
}

type Runner struct {
	db         *sql.DB
	migrations []Migration
}

func NewRunner(db *sql.DB, migrations []Migration) *Runner {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Runner{db: db, migrations: sorted}
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version, or 0
// when none have been applied.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}

	var version sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

// ApplyMigrations applies all pending migrations in order, reporting
// each through log. It returns the number applied.
func (r *Runner) ApplyMigrations(log func(string)) (int, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}

		tx, err := r.db.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name,
		); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}

		if log != nil {
			log(fmt.Sprintf("applied migration %d: %s", m.Version, m.Name))
		}
		applied++
	}

	return applied, nil
}

// ValidateVersion fails when the database schema is newer than this
// binary knows about, which means the binary is too old to use it.
func (r *Runner) ValidateVersion() error {
	current, err := r.CurrentVersion()
	if err != nil {
		return err
	}

	latest := 0
	if len(r.migrations) > 0 {
		latest = r.migrations[len(r.migrations)-1].Version
	}

	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d; upgrade kaizen", current, latest)
	}
	return nil
}
