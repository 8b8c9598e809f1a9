package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          func(context.Context, *sqlx.Tx) error
}

// Migrator handles report database migrations
type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
	logger     *zap.Logger
}

// NewMigrator creates a new database migrator
func NewMigrator(db *sqlx.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	migrator := &Migrator{
		db:     db,
		logger: logger,
	}

	migrator.addMigrations()
	return migrator
}

func execAll(ctx context.Context, tx *sqlx.Tx, statements ...string) error {
	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// addMigrations adds all migration definitions
func (m *Migrator) addMigrations() {
	m.migrations = append(m.migrations, Migration{
		Version:     1,
		Description: "Create scans table",
		Up: func(ctx context.Context, tx *sqlx.Tx) error {
			return execAll(ctx, tx, `
				CREATE TABLE IF NOT EXISTS scans (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					root_id TEXT NOT NULL,
					folders INTEGER NOT NULL DEFAULT 0,
					files_examined INTEGER NOT NULL DEFAULT 0,
					files_accepted INTEGER NOT NULL DEFAULT 0,
					skipped INTEGER NOT NULL DEFAULT 0,
					unique_checksums INTEGER NOT NULL DEFAULT 0,
					duplicate_groups INTEGER NOT NULL DEFAULT 0,
					duplicate_files INTEGER NOT NULL DEFAULT 0,
					wasted_space INTEGER NOT NULL DEFAULT 0,
					integrity_warnings INTEGER NOT NULL DEFAULT 0,
					started_at DATETIME NOT NULL
				)
			`)
		},
	})

	m.migrations = append(m.migrations, Migration{
		Version:     2,
		Description: "Create report_rows table",
		Up: func(ctx context.Context, tx *sqlx.Tx) error {
			return execAll(ctx, tx, `
				CREATE TABLE IF NOT EXISTS report_rows (
					scan_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					group_index INTEGER NOT NULL,
					file_id TEXT NOT NULL,
					name TEXT NOT NULL,
					path TEXT,
					parent TEXT,
					parent_id TEXT,
					parent_url TEXT,
					size INTEGER NOT NULL DEFAULT 0,
					mime_type TEXT,
					checksum TEXT NOT NULL,
					modified_time DATETIME,
					created_time DATETIME,
					color TEXT,
					PRIMARY KEY (scan_id, position),
					FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
				)
			`,
				"CREATE INDEX IF NOT EXISTS idx_report_rows_group ON report_rows(scan_id, group_index)",
				"CREATE INDEX IF NOT EXISTS idx_report_rows_checksum ON report_rows(checksum)",
			)
		},
	})
}

// Run executes all pending migrations
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureVersionTable(ctx); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	m.logger.Debug("current schema version", zap.Int("version", currentVersion))

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.Info("applying migration",
			zap.Int("version", migration.Version),
			zap.String("description", migration.Description))

		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
	}

	return nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := migration.Up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		migration.Version, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// CurrentVersion returns the current schema version
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

// Pending returns the migrations not yet applied
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// LatestVersion returns the highest known migration version
func (m *Migrator) LatestVersion() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

// BackupDatabase creates a backup of the current database
func (m *Migrator) BackupDatabase(ctx context.Context, backupPath string) error {
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(backupPath, "'", "''"))
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create database backup: %w", err)
	}
	m.logger.Info("database backup created", zap.String("path", backupPath))
	return nil
}
