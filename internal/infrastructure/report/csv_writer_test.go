package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-drive-dedup/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *entities.Report {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entities.Report{
		Rows: []entities.ReportRow{
			{GroupIndex: 0, ID: "f1", Name: "a.txt", Path: "Docs/a.txt", Parent: "Docs", ParentID: "d1",
				ParentURL: "https://drive.google.com/drive/folders/d1", Size: 10, Checksum: "X", ModifiedTime: modified},
			{GroupIndex: 0, ID: "f2", Name: "a, copy.txt", Path: "orphaned", Parent: "orphaned",
				ParentURL: "orphaned", Size: 10, Checksum: "X"},
		},
		Colors: []string{"lightsalmon", "lightsalmon"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"0", "f1", "a.txt", "Docs/a.txt", "Docs", "d1",
		"https://drive.google.com/drive/folders/d1", "10", "", "X", "2024-03-01T12:00:00Z", "", "lightsalmon"}, records[1])
	assert.Equal(t, "a, copy.txt", records[2][2])
	assert.Equal(t, "orphaned", records[2][3])
	assert.Equal(t, "", records[2][10])
}

func TestCSVWriterReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Save(context.Background(), sampleReport()))
	require.NoError(t, w.Save(context.Background(), &entities.Report{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "second save leaves only the header")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestCSVWriterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewCSVWriter(filepath.Join(t.TempDir(), "report.csv"))
	assert.ErrorIs(t, w.Save(ctx, sampleReport()), context.Canceled)
}
