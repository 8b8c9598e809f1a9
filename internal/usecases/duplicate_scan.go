package usecases

import (
	"context"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/domain/repositories"
	"go-drive-dedup/internal/domain/services"
	"time"

	"go.uber.org/zap"
)

// ScanObserver receives the summary of every completed scan
type ScanObserver interface {
	ObserveScan(summary entities.ScanSummary)
}

// DuplicateScanUseCase runs the whole scan as one sequential pipeline:
// folders, paths, files, grouping, formatting, then the report sinks.
type DuplicateScanUseCase struct {
	storageProvider services.StorageProvider
	reportRepos     []repositories.ReportRepository
	observer        ScanObserver
	logger          *zap.Logger

	registry  *FolderRegistry
	resolver  *PathResolver
	collector *FileCollector
	grouper   *DuplicateGrouper
	formatter *ReportFormatter

	// Configuration
	maxFiles int
}

// NewDuplicateScanUseCase creates a new duplicate scan use case
func NewDuplicateScanUseCase(
	storageProvider services.StorageProvider,
	reportRepos []repositories.ReportRepository,
	observer ScanObserver,
	logger *zap.Logger,
	palette []string,
	maxFiles int,
) *DuplicateScanUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuplicateScanUseCase{
		storageProvider: storageProvider,
		reportRepos:     reportRepos,
		observer:        observer,
		logger:          logger,
		registry:        NewFolderRegistry(logger),
		resolver:        NewPathResolver(logger),
		collector:       NewFileCollector(logger),
		grouper:         NewDuplicateGrouper(logger, storageProvider.FolderURL),
		formatter:       NewReportFormatter(palette),
		maxFiles:        maxFiles,
	}
}

// ScanRequest represents the request for a duplicate scan
type ScanRequest struct {
	// MaxFiles overrides the configured cap on accepted files when positive
	MaxFiles int `json:"maxFiles,omitempty"`
}

// ScanResponse represents the outcome of a duplicate scan
type ScanResponse struct {
	Report      *entities.Report          `json:"report"`
	Folders     *entities.FolderMap       `json:"-"`
	Groups      *entities.DuplicateGroups `json:"-"`
	Diagnostics *entities.Diagnostics     `json:"diagnostics"`
}

// Scan runs the pipeline. Any storage or sink failure aborts the whole scan and
// nothing partial is returned.
func (uc *DuplicateScanUseCase) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	startedAt := time.Now()
	maxFiles := uc.maxFiles
	if req != nil && req.MaxFiles > 0 {
		maxFiles = req.MaxFiles
	}

	uc.logger.Info("starting duplicate scan",
		zap.String("provider", uc.storageProvider.GetProviderName()),
		zap.Int("max_files", maxFiles))

	diagnostics := entities.NewDiagnostics()

	// Folders first: every file path is looked up in the resolved folder map
	stageStart := time.Now()
	rootID, err := uc.storageProvider.RootFolderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("루트 폴더 조회 실패: %w", err)
	}
	rawFolders, err := uc.storageProvider.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("폴더 목록 조회 실패: %w", err)
	}
	folders, folderDiagnostics, err := uc.registry.Build(rawFolders, rootID)
	if err != nil {
		return nil, fmt.Errorf("폴더 트리 구성 실패: %w", err)
	}
	diagnostics.Merge(folderDiagnostics)
	diagnostics.Merge(uc.resolver.ResolvePaths(folders))
	uc.stageDone("folders", stageStart, zap.Int("folders", folders.Len()))

	stageStart = time.Now()
	iterator, err := uc.storageProvider.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("파일 목록 조회 실패: %w", err)
	}
	collected, err := uc.collector.Collect(ctx, iterator, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("파일 수집 실패: %w", err)
	}
	diagnostics.Merge(collected.Diagnostics)
	uc.stageDone("files", stageStart,
		zap.Int("examined", collected.Examined),
		zap.Int("skipped", collected.Skipped))

	stageStart = time.Now()
	allGroups, err := uc.grouper.Group(collected.Files)
	if err != nil {
		return nil, err
	}
	duplicates := uc.grouper.FilterDuplicates(allGroups)
	diagnostics.Merge(uc.grouper.AttachPaths(duplicates, folders))
	uc.stageDone("grouping", stageStart,
		zap.Int("unique_checksums", allGroups.Len()),
		zap.Int("duplicate_groups", duplicates.Len()))

	stageStart = time.Now()
	report := uc.formatter.Format(duplicates)
	report.Summary = entities.ScanSummary{
		RootID:            rootID,
		Folders:           folders.Len(),
		FilesExamined:     collected.Examined,
		FilesAccepted:     len(collected.Files),
		Skipped:           collected.Skipped,
		UniqueChecksums:   allGroups.Len(),
		DuplicateGroups:   duplicates.Len(),
		DuplicateFiles:    duplicates.FileCount(),
		WastedSpace:       duplicates.WastedSpace(),
		IntegrityWarnings: len(diagnostics.Warnings),
		StartedAt:         startedAt,
	}
	uc.stageDone("formatting", stageStart, zap.Int("rows", len(report.Rows)))

	stageStart = time.Now()
	for _, repo := range uc.reportRepos {
		if err := repo.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("보고서 저장 실패: %w", err)
		}
	}
	uc.stageDone("writing", stageStart, zap.Int("sinks", len(uc.reportRepos)))

	report.Summary.Duration = time.Since(startedAt)
	if uc.observer != nil {
		uc.observer.ObserveScan(report.Summary)
	}

	uc.logger.Info("duplicate scan completed",
		zap.Int("files_examined", report.Summary.FilesExamined),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Int("duplicate_groups", report.Summary.DuplicateGroups),
		zap.Int("unique_files", report.Summary.UniqueChecksums),
		zap.String("wasted", formatFileSize(report.Summary.WastedSpace)),
		zap.Int("warnings", report.Summary.IntegrityWarnings),
		zap.Duration("elapsed", report.Summary.Duration))

	return &ScanResponse{
		Report:      report,
		Folders:     folders,
		Groups:      duplicates,
		Diagnostics: diagnostics,
	}, nil
}

func (uc *DuplicateScanUseCase) stageDone(stage string, start time.Time, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("stage", stage), zap.Duration("elapsed", time.Since(start))}, fields...)
	uc.logger.Info("stage finished", fields...)
}

// formatFileSize formats file size in human readable format
func formatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
