package sqlite

import (
	"context"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/infrastructure/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// rowsPerInsert keeps each batch well under SQLite's bound-variable limit
const rowsPerInsert = 500

type ReportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// reportRowRecord is the stored shape of a report row
type reportRowRecord struct {
	entities.ReportRow
	ScanID   int64  `db:"scan_id"`
	Position int    `db:"position"`
	Color    string `db:"color"`
}

// Open connects to the SQLite database at path and applies pending migrations
func Open(ctx context.Context, path string, logger *zap.Logger) (*ReportRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single writer; the report is replaced in one transaction
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			logger.Warn("failed to set pragma", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate report database: %w", err)
	}

	return NewReportRepository(db, logger), nil
}

// NewReportRepository wraps an already-migrated database
func NewReportRepository(db *sqlx.DB, logger *zap.Logger) *ReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRepository{db: db, logger: logger}
}

// Save replaces the stored report. Nothing from an earlier scan survives.
func (r *ReportRepository) Save(ctx context.Context, report *entities.Report) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM report_rows"); err != nil {
		return fmt.Errorf("failed to clear report rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM scans"); err != nil {
		return fmt.Errorf("failed to clear scans: %w", err)
	}

	result, err := tx.NamedExecContext(ctx, `
	INSERT INTO scans (
		root_id, folders, files_examined, files_accepted, skipped, unique_checksums,
		duplicate_groups, duplicate_files, wasted_space, integrity_warnings, started_at
	) VALUES (
		:root_id, :folders, :files_examined, :files_accepted, :skipped, :unique_checksums,
		:duplicate_groups, :duplicate_files, :wasted_space, :integrity_warnings, :started_at
	)`, report.Summary)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}
	scanID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	records := make([]reportRowRecord, len(report.Rows))
	for i, row := range report.Rows {
		records[i] = reportRowRecord{ReportRow: row, ScanID: scanID, Position: i}
		if i < len(report.Colors) {
			records[i].Color = report.Colors[i]
		}
	}

	for start := 0; start < len(records); start += rowsPerInsert {
		end := start + rowsPerInsert
		if end > len(records) {
			end = len(records)
		}
		if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO report_rows (
			scan_id, position, group_index, file_id, name, path, parent, parent_id, parent_url,
			size, mime_type, checksum, modified_time, created_time, color
		) VALUES (
			:scan_id, :position, :group_index, :file_id, :name, :path, :parent, :parent_id, :parent_url,
			:size, :mime_type, :checksum, :modified_time, :created_time, :color
		)`, records[start:end]); err != nil {
			return fmt.Errorf("failed to insert report rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Debug("report saved to sqlite", zap.Int64("scan_id", scanID), zap.Int("rows", len(records)))
	return nil
}

// Latest loads the stored report, or nil when none has been saved
func (r *ReportRepository) Latest(ctx context.Context) (*entities.Report, error) {
	var summaries []entities.ScanSummary
	if err := r.db.SelectContext(ctx, &summaries, `
	SELECT root_id, folders, files_examined, files_accepted, skipped, unique_checksums,
		duplicate_groups, duplicate_files, wasted_space, integrity_warnings, started_at
	FROM scans ORDER BY id DESC LIMIT 1`); err != nil {
		return nil, fmt.Errorf("failed to load scan: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	var records []reportRowRecord
	if err := r.db.SelectContext(ctx, &records, `
	SELECT scan_id, position, group_index, file_id, name, path, parent, parent_id, parent_url,
		size, mime_type, checksum, modified_time, created_time, color
	FROM report_rows ORDER BY position ASC`); err != nil {
		return nil, fmt.Errorf("failed to load report rows: %w", err)
	}

	report := &entities.Report{
		Rows:    make([]entities.ReportRow, len(records)),
		Colors:  make([]string, len(records)),
		Summary: summaries[0],
	}
	for i, record := range records {
		report.Rows[i] = record.ReportRow
		report.Colors[i] = record.Color
	}
	return report, nil
}

func (r *ReportRepository) Close() error {
	return r.db.Close()
}
