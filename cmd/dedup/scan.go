package main

import (
	"fmt"
	"io"

	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/infrastructure/config"

	"github.com/spf13/cobra"
)

var scanFlags struct {
	maxFiles        int
	snapshot        string
	csvPath         string
	sqlitePath      string
	metricsTextfile string
	logLevel        string
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the account and write the duplicate report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyScanFlags(cmd, cfg)

		app, err := config.NewApplication(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		response, err := app.Run(cmd.Context())
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), response.Report.Summary, cfg)
		return nil
	},
}

func init() {
	flags := scanCmd.Flags()
	flags.IntVar(&scanFlags.maxFiles, "max-files", 0, "Stop after this many files with a checksum (0 = all)")
	flags.StringVar(&scanFlags.snapshot, "snapshot", "", "Scan a recorded listing (YAML or JSON) instead of Google Drive")
	flags.StringVar(&scanFlags.csvPath, "csv", "", "CSV report path (empty string disables)")
	flags.StringVar(&scanFlags.sqlitePath, "sqlite", "", "SQLite report path (empty string disables)")
	flags.StringVar(&scanFlags.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this textfile")
	flags.StringVar(&scanFlags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(scanCmd)
}

// applyScanFlags overrides config with every flag given on the command line
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-files") {
		cfg.Scan.MaxFiles = scanFlags.maxFiles
	}
	if flags.Changed("snapshot") {
		cfg.Storage.Provider = config.ProviderSnapshot
		cfg.Storage.SnapshotPath = scanFlags.snapshot
	}
	if flags.Changed("csv") {
		cfg.Report.CSVPath = scanFlags.csvPath
	}
	if flags.Changed("sqlite") {
		cfg.Report.SQLitePath = scanFlags.sqlitePath
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.TextfilePath = scanFlags.metricsTextfile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = scanFlags.logLevel
	}
}

func printSummary(out io.Writer, summary entities.ScanSummary, cfg *config.Config) {
	fmt.Fprintf(out, "Files examined:     %d\n", summary.FilesExamined)
	fmt.Fprintf(out, "Skipped (no md5):   %d\n", summary.Skipped)
	fmt.Fprintf(out, "Unique checksums:   %d\n", summary.UniqueChecksums)
	fmt.Fprintf(out, "Duplicate groups:   %d\n", summary.DuplicateGroups)
	fmt.Fprintf(out, "Duplicate files:    %d\n", summary.DuplicateFiles)
	fmt.Fprintf(out, "Wasted space:       %d bytes\n", summary.WastedSpace)
	if summary.IntegrityWarnings > 0 {
		fmt.Fprintf(out, "Integrity warnings: %d\n", summary.IntegrityWarnings)
	}
	fmt.Fprintf(out, "Elapsed:            %s\n", summary.Duration)
	if cfg.Report.CSVPath != "" {
		fmt.Fprintf(out, "CSV report:         %s\n", cfg.Report.CSVPath)
	}
	if cfg.Report.SQLitePath != "" {
		fmt.Fprintf(out, "SQLite report:      %s\n", cfg.Report.SQLitePath)
	}
}
