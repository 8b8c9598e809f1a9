package main

import (
	"fmt"
	"os"

	"go-drive-dedup/internal/infrastructure/report"
	"go-drive-dedup/internal/infrastructure/repositories/sqlite"

	"github.com/spf13/cobra"
)

var reportDBPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the last stored report as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := reportDBPath
		if dbPath == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbPath = cfg.Report.SQLitePath
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("report database not found: %w", err)
		}

		repo, err := sqlite.Open(cmd.Context(), dbPath, nil)
		if err != nil {
			return err
		}
		defer repo.Close()

		stored, err := repo.Latest(cmd.Context())
		if err != nil {
			return err
		}
		if stored == nil {
			return fmt.Errorf("no scan has been stored in %s", dbPath)
		}
		return report.WriteCSV(cmd.OutOrStdout(), stored)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDBPath, "db", "", "Path to SQLite database file (default: report.sqlite_path)")
	rootCmd.AddCommand(reportCmd)
}
