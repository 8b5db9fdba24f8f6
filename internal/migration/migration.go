package migration

import (
	"context"
	"crypto/sha256"
	"fmt"

	"sheetgen/domain/core"
	"sheetgen/internal"
	"sheetgen/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// Migration is one schema step. Statements must work on both PostgreSQL and
// SQLite.
type Migration struct {
	Version    string
	Name       string
	Statements []string
}

// Checksum identifies the migration content
func (m Migration) Checksum() string {
	h := sha256.New()
	for _, stmt := range m.Statements {
		h.Write([]byte(stmt))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

var migrations = []Migration{
	{
		Version: "001",
		Name:    "sheet_sessions",
		Statements: []string{`
			CREATE TABLE IF NOT EXISTS sheet_sessions (
				id TEXT PRIMARY KEY,
				snapshot TEXT,
				updated_at BIGINT NOT NULL
			)`,
		},
	},
	{
		Version: "002",
		Name:    "sheet_sessions_updated_at_index",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_sheet_sessions_updated_at ON sheet_sessions(updated_at)`,
		},
	},
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version    string
	migrations []Migration
	logger     *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &MigrationRunner{
		version:    migrations[len(migrations)-1].Version,
		migrations: migrations,
		logger:     logger.Named("Migration"),
	}
}

// Version returns the latest schema version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run applies pending migrations in order. An applied migration whose
// content changed is an error.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at BIGINT NOT NULL
		)`); err != nil {
		return errors.DatabaseError("failed to create schema_migrations table", err)
	}

	applied, err := r.applied(ctx, db)
	if err != nil {
		return errors.DatabaseError("failed to read applied migrations", err)
	}

	for _, m := range r.migrations {
		if sum, ok := applied[m.Version]; ok {
			if sum != m.Checksum() {
				return errors.DatabaseError(fmt.Sprintf("migration %s changed after it was applied", m.Version), nil)
			}
			continue
		}
		if err := r.apply(ctx, db, m); err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to run migration %s_%s", m.Version, m.Name), err)
		}
		r.logger.Info("Applied migration %s_%s", m.Version, m.Name)
	}
	return nil
}

func (r *MigrationRunner) applied(ctx context.Context, db *sqlx.DB) (map[string]string, error) {
	var rows []struct {
		Version  string `db:"version"`
		Checksum string `db:"checksum"`
	}
	if err := db.SelectContext(ctx, &rows, "SELECT version, checksum FROM schema_migrations"); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Version] = row.Checksum
	}
	return out, nil
}

func (r *MigrationRunner) apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_migrations (version, checksum, applied_at) VALUES (?, ?, ?)"),
		m.Version, m.Checksum(), core.Now().UnixMilli()); err != nil {
		return err
	}
	return tx.Commit()
}
