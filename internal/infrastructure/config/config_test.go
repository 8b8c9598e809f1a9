package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-drive-dedup/internal/usecases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshotConfig() *Config {
	config := DefaultConfig()
	config.Storage.Provider = ProviderSnapshot
	config.Storage.SnapshotPath = "snapshot.yaml"
	return config
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGoogleDrive, config.Storage.Provider)
	assert.Equal(t, int64(1000), config.GoogleDrive.PageSize)
	assert.Equal(t, usecases.DefaultPalette, config.Report.Palette)
	assert.Equal(t, "https://drive.google.com/drive/folders/", config.GoogleDrive.FolderURLBase)
	assert.Error(t, config.Validate(), "drive credentials are required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"snapshot ok", func(c *Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Storage.Provider = "dropbox" }, "invalid storage provider"},
		{"missing snapshot path", func(c *Config) { c.Storage.SnapshotPath = "" }, "snapshot path"},
		{"drive without credentials", func(c *Config) { c.Storage.Provider = ProviderGoogleDrive }, "credentials"},
		{"drive with api key", func(c *Config) {
			c.Storage.Provider = ProviderGoogleDrive
			c.GoogleDrive.APIKey = "key"
		}, ""},
		{"drive page size too large", func(c *Config) {
			c.Storage.Provider = ProviderGoogleDrive
			c.GoogleDrive.APIKey = "key"
			c.GoogleDrive.PageSize = 1001
		}, "page size"},
		{"negative max files", func(c *Config) { c.Scan.MaxFiles = -1 }, "max files"},
		{"empty palette", func(c *Config) { c.Report.Palette = nil }, "palette"},
		{"no sinks", func(c *Config) {
			c.Report.CSVPath = ""
			c.Report.SQLitePath = ""
		}, "report sink"},
		{"csv only", func(c *Config) { c.Report.SQLitePath = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validSnapshotConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  provider: snapshot
  snapshot_path: ./fixtures/drive.yaml
scan:
  max_files: 50
report:
  csv_path: out.csv
  sqlite_path: ""
  palette: [red, blue]
logging:
  level: debug
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderSnapshot, config.Storage.Provider)
	assert.Equal(t, "./fixtures/drive.yaml", config.Storage.SnapshotPath)
	assert.Equal(t, 50, config.Scan.MaxFiles)
	assert.Equal(t, []string{"red", "blue"}, config.Report.Palette)
	assert.Equal(t, "", config.Report.SQLitePath)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, int64(1000), config.GoogleDrive.PageSize, "unset keys keep defaults")
	assert.NoError(t, config.Validate())
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedup.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"storage":{"provider":"google_drive"},"googleDrive":{"apiKey":"k","pageSize":200}}`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "k", config.GoogleDrive.APIKey)
	assert.Equal(t, int64(200), config.GoogleDrive.PageSize)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "dedup.yaml")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Report, config.Report)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, reloaded)
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DEDUP_STORAGE_PROVIDER", ProviderSnapshot)
	t.Setenv("DEDUP_SNAPSHOT_PATH", "/tmp/drive.json")
	t.Setenv("GOOGLE_DRIVE_TOKEN_PATH", "/secrets/token.json")
	t.Setenv("DEDUP_MAX_FILES", "25")
	t.Setenv("DEDUP_SQLITE_PATH", "")
	t.Setenv("DEDUP_METRICS_TEXTFILE", "/var/lib/node_exporter/dedup.prom")
	t.Setenv("LOG_LEVEL", "warn")

	config := LoadConfigFromEnv()

	assert.Equal(t, ProviderSnapshot, config.Storage.Provider)
	assert.Equal(t, "/tmp/drive.json", config.Storage.SnapshotPath)
	assert.Equal(t, "/secrets/token.json", config.GoogleDrive.TokenPath)
	assert.Equal(t, 25, config.Scan.MaxFiles)
	assert.Equal(t, "", config.Report.SQLitePath, "a set but empty variable disables the sink")
	assert.Equal(t, DefaultConfig().Report.CSVPath, config.Report.CSVPath)
	assert.Equal(t, "/var/lib/node_exporter/dedup.prom", config.Metrics.TextfilePath)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestApplyEnvIgnoresBadNumber(t *testing.T) {
	t.Setenv("DEDUP_MAX_FILES", "lots")

	config := LoadConfigFromEnv()
	assert.Equal(t, 0, config.Scan.MaxFiles)
}
