package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	infraServices "go-drive-dedup/internal/infrastructure/services"
	"go-drive-dedup/internal/usecases"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGoogleDrive = "google_drive"
	ProviderSnapshot    = "snapshot"
)

// Config represents the application configuration
type Config struct {
	Storage     StorageConfig     `json:"storage" yaml:"storage"`
	GoogleDrive GoogleDriveConfig `json:"googleDrive" yaml:"google_drive"`
	Scan        ScanConfig        `json:"scan" yaml:"scan"`
	Report      ReportConfig      `json:"report" yaml:"report"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `json:"metrics" yaml:"metrics"`
}

// StorageConfig selects where folder and file listings come from
type StorageConfig struct {
	Provider     string `json:"provider" yaml:"provider"`
	SnapshotPath string `json:"snapshotPath,omitempty" yaml:"snapshot_path,omitempty"`
}

// GoogleDriveConfig contains Google Drive API configuration
type GoogleDriveConfig struct {
	CredentialsPath string `json:"credentialsPath" yaml:"credentials_path"`
	TokenPath       string `json:"tokenPath,omitempty" yaml:"token_path,omitempty"`
	APIKey          string `json:"apiKey" yaml:"api_key"`
	PageSize        int64  `json:"pageSize" yaml:"page_size"`
	MaxRetries      int    `json:"maxRetries" yaml:"max_retries"`
	RequestTimeout  string `json:"requestTimeout,omitempty" yaml:"request_timeout,omitempty"`
	FolderURLBase   string `json:"folderUrlBase" yaml:"folder_url_base"`
}

// GetRequestTimeout returns parsed request timeout duration
func (g *GoogleDriveConfig) GetRequestTimeout() time.Duration {
	if g.RequestTimeout == "" {
		return 30 * time.Second
	}
	if duration, err := time.ParseDuration(g.RequestTimeout); err == nil {
		return duration
	}
	return 30 * time.Second
}

// ScanConfig bounds the scan
type ScanConfig struct {
	MaxFiles int `json:"maxFiles" yaml:"max_files"` // 0 = unbounded
}

// ReportConfig lists the report sinks. An empty path disables that sink.
type ReportConfig struct {
	CSVPath    string   `json:"csvPath" yaml:"csv_path"`
	SQLitePath string   `json:"sqlitePath" yaml:"sqlite_path"`
	Palette    []string `json:"palette" yaml:"palette"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	TextfilePath string `json:"textfilePath,omitempty" yaml:"textfile_path,omitempty"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Provider: ProviderGoogleDrive,
		},
		GoogleDrive: GoogleDriveConfig{
			TokenPath:      "token.json",
			PageSize:       1000,
			MaxRetries:     3,
			RequestTimeout: "30s",
			FolderURLBase:  infraServices.DefaultFolderURLBase,
		},
		Report: ReportConfig{
			CSVPath:    "./data/duplicates.csv",
			SQLitePath: "./data/duplicates.db",
			Palette:    append([]string(nil), usecases.DefaultPalette...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// LoadConfig loads configuration from a file (supports both JSON and YAML) and
// applies environment overrides. An empty path yields the defaults. A missing file
// is created with the defaults. The result is not validated, so that command-line
// overrides can be applied first.
func LoadConfig(configPath string) (*Config, error) {
	// Start with default configuration
	config := DefaultConfig()

	if configPath == "" {
		ApplyEnv(config)
		return config, nil
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		ApplyEnv(config)
		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Determine file format by extension
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	default:
		// Try JSON first, then YAML
		if err := json.Unmarshal(data, config); err != nil {
			if yamlErr := yaml.Unmarshal(data, config); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse config file as JSON or YAML: JSON error: %v, YAML error: %v", err, yamlErr)
			}
		}
	}

	ApplyEnv(config)
	return config, nil
}

// SaveConfig saves configuration to a file (supports both JSON and YAML)
func SaveConfig(config *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(configPath))
	var data []byte
	var err error

	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
	default:
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfigFromEnv returns the defaults with environment overrides applied
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()
	ApplyEnv(config)
	return config
}

// ApplyEnv overrides config with every environment variable that is set
func ApplyEnv(config *Config) {
	// Storage configuration
	if provider := os.Getenv("DEDUP_STORAGE_PROVIDER"); provider != "" {
		config.Storage.Provider = provider
	}
	if snapshotPath := os.Getenv("DEDUP_SNAPSHOT_PATH"); snapshotPath != "" {
		config.Storage.SnapshotPath = snapshotPath
	}

	// Google Drive configuration
	if credPath := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_PATH"); credPath != "" {
		config.GoogleDrive.CredentialsPath = credPath
	}
	if tokenPath := os.Getenv("GOOGLE_DRIVE_TOKEN_PATH"); tokenPath != "" {
		config.GoogleDrive.TokenPath = tokenPath
	}
	if apiKey := os.Getenv("GOOGLE_DRIVE_API_KEY"); apiKey != "" {
		config.GoogleDrive.APIKey = apiKey
	}

	// Scan configuration
	if maxFiles := os.Getenv("DEDUP_MAX_FILES"); maxFiles != "" {
		if n, err := strconv.Atoi(maxFiles); err == nil {
			config.Scan.MaxFiles = n
		}
	}

	// Report configuration
	if csvPath, ok := os.LookupEnv("DEDUP_CSV_PATH"); ok {
		config.Report.CSVPath = csvPath
	}
	if sqlitePath, ok := os.LookupEnv("DEDUP_SQLITE_PATH"); ok {
		config.Report.SQLitePath = sqlitePath
	}

	// Logging configuration
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}

	if textfile := os.Getenv("DEDUP_METRICS_TEXTFILE"); textfile != "" {
		config.Metrics.TextfilePath = textfile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case ProviderGoogleDrive:
		if c.GoogleDrive.APIKey == "" && c.GoogleDrive.CredentialsPath == "" {
			return fmt.Errorf("either Google Drive API key or credentials path is required")
		}
		if c.GoogleDrive.PageSize < 1 || c.GoogleDrive.PageSize > 1000 {
			return fmt.Errorf("google drive page size must be between 1 and 1000: %d", c.GoogleDrive.PageSize)
		}
		if c.GoogleDrive.MaxRetries < 0 {
			return fmt.Errorf("google drive max retries must not be negative")
		}
	case ProviderSnapshot:
		if c.Storage.SnapshotPath == "" {
			return fmt.Errorf("snapshot path is required for the snapshot provider")
		}
	default:
		return fmt.Errorf("invalid storage provider: %q", c.Storage.Provider)
	}

	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("max files must not be negative: %d", c.Scan.MaxFiles)
	}

	if len(c.Report.Palette) == 0 {
		return fmt.Errorf("report palette must not be empty")
	}
	if c.Report.CSVPath == "" && c.Report.SQLitePath == "" {
		return fmt.Errorf("at least one report sink (csv or sqlite) is required")
	}

	return nil
}
