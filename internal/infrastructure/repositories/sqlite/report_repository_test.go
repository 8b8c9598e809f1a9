package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go-drive-dedup/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) *ReportRepository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "report.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testReport(rows int) *entities.Report {
	modified := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	report := &entities.Report{
		Summary: entities.ScanSummary{
			RootID:          "root",
			Folders:         3,
			FilesExamined:   rows + 1,
			FilesAccepted:   rows,
			Skipped:         1,
			DuplicateGroups: 1,
			DuplicateFiles:  rows,
			WastedSpace:     int64(rows-1) * 100,
			StartedAt:       modified,
		},
	}
	for i := 0; i < rows; i++ {
		report.Rows = append(report.Rows, entities.ReportRow{
			GroupIndex:   0,
			ID:           "file-" + string(rune('a'+i%26)),
			Name:         "copy.bin",
			Path:         "Docs/copy.bin",
			Parent:       "Docs",
			ParentID:     "docs",
			ParentURL:    "https://drive.google.com/drive/folders/docs",
			Size:         100,
			Checksum:     "abc",
			ModifiedTime: modified,
		})
		report.Colors = append(report.Colors, "lightsalmon")
	}
	return report
}

func TestSaveAndLatest(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	saved := testReport(3)
	require.NoError(t, repo.Save(ctx, saved))

	latest, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)

	assert.Equal(t, "root", latest.Summary.RootID)
	assert.Equal(t, int64(200), latest.Summary.WastedSpace)
	assert.True(t, saved.Summary.StartedAt.Equal(latest.Summary.StartedAt))
	require.Len(t, latest.Rows, 3)
	assert.Equal(t, saved.Rows[1].ID, latest.Rows[1].ID)
	assert.Equal(t, "Docs/copy.bin", latest.Rows[0].Path)
	assert.True(t, saved.Rows[0].ModifiedTime.Equal(latest.Rows[0].ModifiedTime))
	assert.Equal(t, saved.Colors, latest.Colors)
}

func TestSaveReplacesPreviousScan(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testReport(4)))
	require.NoError(t, repo.Save(ctx, testReport(2)))

	var scans, rows int
	require.NoError(t, repo.db.Get(&scans, "SELECT COUNT(*) FROM scans"))
	require.NoError(t, repo.db.Get(&rows, "SELECT COUNT(*) FROM report_rows"))
	assert.Equal(t, 1, scans)
	assert.Equal(t, 2, rows)
}

func TestSaveLargeReportInBatches(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testReport(rowsPerInsert*2+7)))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Len(t, latest.Rows, rowsPerInsert*2+7)
}

func TestSaveEmptyReport(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entities.Report{Summary: entities.ScanSummary{RootID: "root", StartedAt: time.Now()}}))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Empty(t, latest.Rows)
}
