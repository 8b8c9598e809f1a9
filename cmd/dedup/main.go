package main

import (
	"fmt"
	"os"

	"go-drive-dedup/internal/infrastructure/config"

	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "./config/dedup.yaml"
	appName           = "Go Drive Dedup"
	appVersion        = "1.0.0"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath,
		"Path to configuration file (supports .json, .yaml, .yml); empty uses defaults")
}

var rootCmd = &cobra.Command{
	Use:           "dedup",
	Short:         "Find files with identical content in a Google Drive account",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", appName, appVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration file and environment. Flag overrides are
// applied by each command before validation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
