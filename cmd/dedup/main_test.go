package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "rootId": "root",
  "folders": [{"id": "a", "name": "A", "parents": ["root"]}],
  "files": [
    {"id": "1", "name": "x.bin", "size": "5", "mimeType": "application/octet-stream", "parents": ["a"], "md5Checksum": "m", "modifiedTime": "2024-01-01T00:00:00Z"},
    {"id": "2", "name": "x.bin", "size": "5", "mimeType": "application/octet-stream", "parents": ["root"], "md5Checksum": "m", "modifiedTime": "2024-02-01T00:00:00Z"}
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, appVersion)
}

func TestScanMigrateAndReport(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "drive.json")
	require.NoError(t, os.WriteFile(snapshot, []byte(fixture), 0644))
	csvPath := filepath.Join(dir, "dup.csv")
	dbPath := filepath.Join(dir, "dup.db")

	out, err := execute(t, "scan", "--config=", "--snapshot", snapshot, "--csv", csvPath, "--sqlite", dbPath,
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Duplicate groups:   1")
	assert.FileExists(t, csvPath)

	out, err = execute(t, "migrate", "--db", dbPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = execute(t, "report", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "groupIndex,id,name")
	assert.Contains(t, out, "A/x.bin")
	assert.Contains(t, out, "My Drive")
}
