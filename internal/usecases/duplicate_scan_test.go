package usecases

import (
	"context"
	"errors"
	"testing"

	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/domain/repositories"
	"go-drive-dedup/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	rootID     string
	folders    []*entities.RawFolder
	files      []*entities.RawFile
	foldersErr error
}

func (p *fakeProvider) RootFolderID(ctx context.Context) (string, error) { return p.rootID, nil }

func (p *fakeProvider) ListFolders(ctx context.Context) ([]*entities.RawFolder, error) {
	return p.folders, p.foldersErr
}

func (p *fakeProvider) ListFiles(ctx context.Context) (services.FileIterator, error) {
	return newSliceIterator(p.files...), nil
}

func (p *fakeProvider) FolderURL(id string) string { return "https://drive.example/" + id }

func (p *fakeProvider) GetProviderName() string { return "fake" }

type recordingRepo struct {
	saved *entities.Report
	err   error
}

func (r *recordingRepo) Save(ctx context.Context, report *entities.Report) error {
	if r.err != nil {
		return r.err
	}
	r.saved = report
	return nil
}

func (r *recordingRepo) Close() error { return nil }

type recordingObserver struct {
	summaries []entities.ScanSummary
}

func (o *recordingObserver) ObserveScan(summary entities.ScanSummary) {
	o.summaries = append(o.summaries, summary)
}

func scanFixture() *fakeProvider {
	return &fakeProvider{
		rootID: "root",
		folders: []*entities.RawFolder{
			rawFolder("music", "Music", "root"),
			rawFolder("backup", "Backup", "music"),
			rawFolder("lost", "Lost", "nowhere"),
		},
		files: []*entities.RawFile{
			{ID: "s1", Name: "song.mp3", Size: "300", Checksum: "S", Parents: []string{"music"}, ModifiedTime: "2024-01-01T00:00:00Z"},
			{ID: "p1", Name: "pic.png", Size: "50", Checksum: "P", Parents: []string{"root"}},
			{ID: "s2", Name: "song.mp3", Size: "300", Checksum: "S", Parents: []string{"backup"}, ModifiedTime: "2024-06-01T00:00:00Z"},
			{ID: "doc", Name: "Notes", MimeType: "application/vnd.google-apps.document"},
			{ID: "u1", Name: "unique.txt", Size: "5", Checksum: "U", Parents: []string{"root"}},
			{ID: "p2", Name: "pic.png", Size: "50", Checksum: "P", Parents: []string{"lost"}},
			{ID: "p3", Name: "pic (1).png", Size: "50", Checksum: "P"},
		},
	}
}

func TestScanEndToEnd(t *testing.T) {
	repo := &recordingRepo{}
	observer := &recordingObserver{}
	uc := NewDuplicateScanUseCase(scanFixture(), []repositories.ReportRepository{repo}, observer, nil, nil, 0)

	response, err := uc.Scan(context.Background(), &ScanRequest{})
	require.NoError(t, err)

	summary := response.Report.Summary
	assert.Equal(t, "root", summary.RootID)
	assert.Equal(t, 4, summary.Folders)
	assert.Equal(t, 7, summary.FilesExamined)
	assert.Equal(t, 6, summary.FilesAccepted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 3, summary.UniqueChecksums)
	assert.Equal(t, 2, summary.DuplicateGroups)
	assert.Equal(t, 5, summary.DuplicateFiles)
	assert.Equal(t, int64(300+2*50), summary.WastedSpace)
	assert.Equal(t, 1, response.Diagnostics.Count(entities.WarningUnknownParent))
	assert.Equal(t, summary.IntegrityWarnings, len(response.Diagnostics.Warnings))

	rows := response.Report.Rows
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"s2", "s1", "p1", "p2", "p3"}, rowIDs(rows))
	assert.Equal(t, "Music/Backup/song.mp3", rows[0].Path)
	assert.Equal(t, "https://drive.example/backup", rows[0].ParentURL)
	assert.Equal(t, RootDisplayName, rows[2].Parent)
	assert.Equal(t, "pic.png", rows[3].Path, "a folder with a dangling parent has an empty path")
	assert.Equal(t, entities.OrphanedLabel, rows[4].Path)
	assert.Equal(t, []string{"lightsalmon", "lightsalmon", "lightpink", "lightpink", "lightpink"}, response.Report.Colors)

	assert.Same(t, response.Report, repo.saved)
	require.Len(t, observer.summaries, 1)
	assert.Equal(t, summary, observer.summaries[0])
}

func TestScanMaxFiles(t *testing.T) {
	uc := NewDuplicateScanUseCase(scanFixture(), nil, nil, nil, nil, 100)

	response, err := uc.Scan(context.Background(), &ScanRequest{MaxFiles: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, response.Report.Summary.FilesAccepted)
	assert.Equal(t, 1, response.Report.Summary.DuplicateGroups)
}

func TestScanRootWithParentIsFatal(t *testing.T) {
	provider := scanFixture()
	provider.folders = append(provider.folders, rawFolder("root", "Root", "elsewhere"))
	repo := &recordingRepo{}

	_, err := NewDuplicateScanUseCase(provider, []repositories.ReportRepository{repo}, nil, nil, nil, 0).
		Scan(context.Background(), nil)

	var validation *entities.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Nil(t, repo.saved, "nothing is written after a fatal error")
}

func TestScanStorageFailure(t *testing.T) {
	provider := scanFixture()
	provider.foldersErr = errors.New("quota exceeded")

	_, err := NewDuplicateScanUseCase(provider, nil, nil, nil, nil, 0).Scan(context.Background(), nil)
	assert.ErrorIs(t, err, provider.foldersErr)
}

func TestScanSinkFailure(t *testing.T) {
	failure := errors.New("disk full")
	observer := &recordingObserver{}

	_, err := NewDuplicateScanUseCase(scanFixture(), []repositories.ReportRepository{&recordingRepo{err: failure}}, observer, nil, nil, 0).
		Scan(context.Background(), nil)

	assert.ErrorIs(t, err, failure)
	assert.Empty(t, observer.summaries)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))
}
