package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-drive-dedup/internal/infrastructure/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var migrateFlags struct {
	dbPath      string
	backup      bool
	backupPath  string
	dryRun      bool
	showVersion bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations to the SQLite report database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := migrateFlags.dbPath
		if dbPath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbPath = cfg.Report.SQLitePath
		}
		if dbPath == "" {
			return fmt.Errorf("no report database configured; pass --db")
		}

		// Check if database file exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file does not exist: %s", dbPath)
		}

		db, err := sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		// SQLite works best with single connection for migrations
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		out := cmd.OutOrStdout()
		migrator := database.NewMigrator(db, nil)

		if migrateFlags.showVersion {
			version, err := migrator.CurrentVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "📊 Schema version %d (latest %d)\n", version, migrator.LatestVersion())
			return nil
		}

		if migrateFlags.dryRun {
			pending, err := migrator.Pending(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "✅ Schema is up to date")
				return nil
			}
			fmt.Fprintln(out, "📋 The following migrations would be applied:")
			for _, migration := range pending {
				fmt.Fprintf(out, "   %d. %s\n", migration.Version, migration.Description)
			}
			return nil
		}

		if migrateFlags.backup {
			backupFile := migrateFlags.backupPath
			if backupFile == "" {
				timestamp := time.Now().Format("20060102_150405")
				backupFile = fmt.Sprintf("duplicates_backup_%s.db", timestamp)
			}
			if err := migrator.BackupDatabase(ctx, backupFile); err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Backup created: %s\n", backupFile)
		}

		if err := migrator.Run(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, "🎉 All migrations completed successfully!")
		return nil
	},
}

func init() {
	flags := migrateCmd.Flags()
	flags.StringVar(&migrateFlags.dbPath, "db", "", "Path to SQLite database file (default: report.sqlite_path)")
	flags.BoolVar(&migrateFlags.backup, "backup", true, "Create backup before migration")
	flags.StringVar(&migrateFlags.backupPath, "backup-path", "", "Custom backup file path (default: duplicates_backup_timestamp.db)")
	flags.BoolVar(&migrateFlags.dryRun, "dry-run", false, "Show what migrations would be applied without executing them")
	flags.BoolVar(&migrateFlags.showVersion, "schema-version", false, "Show current schema version")
	rootCmd.AddCommand(migrateCmd)
}
