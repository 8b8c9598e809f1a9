package config

import (
	"context"
	"fmt"
	"go-drive-dedup/internal/domain/repositories"
	"go-drive-dedup/internal/domain/services"
	"go-drive-dedup/internal/infrastructure/metrics"
	"go-drive-dedup/internal/infrastructure/report"
	"go-drive-dedup/internal/infrastructure/repositories/sqlite"
	infraServices "go-drive-dedup/internal/infrastructure/services"
	"go-drive-dedup/internal/usecases"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Container holds all dependencies for the application
type Container struct {
	// Configuration
	Config *Config
	Logger *zap.Logger

	// Report sinks
	ReportRepos []repositories.ReportRepository
	SQLiteRepo  *sqlite.ReportRepository
	CSVWriter   *report.CSVWriter

	// Services
	StorageProvider services.StorageProvider
	Metrics         *metrics.ScanMetrics

	// Use Cases
	DuplicateScanUseCase *usecases.DuplicateScanUseCase
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(ctx context.Context, config *Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	container := &Container{
		Config: config,
		Logger: logger,
	}

	if err := container.initializeRepositories(ctx); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize report sinks: %w", err)
	}

	if err := container.initializeServices(ctx); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	container.initializeUseCases()
	return container, nil
}

func (c *Container) initializeRepositories(ctx context.Context) error {
	if path := c.Config.Report.SQLitePath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		repo, err := sqlite.Open(ctx, path, c.Logger)
		if err != nil {
			return err
		}
		c.SQLiteRepo = repo
		c.ReportRepos = append(c.ReportRepos, repo)
	}

	if path := c.Config.Report.CSVPath; path != "" {
		c.CSVWriter = report.NewCSVWriter(path)
		c.ReportRepos = append(c.ReportRepos, c.CSVWriter)
	}

	return nil
}

func (c *Container) initializeServices(ctx context.Context) error {
	switch c.Config.Storage.Provider {
	case ProviderSnapshot:
		snapshot, err := infraServices.LoadSnapshot(c.Config.Storage.SnapshotPath)
		if err != nil {
			return err
		}
		c.StorageProvider = infraServices.NewSnapshotStorageProvider(snapshot, c.Config.GoogleDrive.FolderURLBase)
		c.Logger.Info("using snapshot storage provider", zap.String("path", c.Config.Storage.SnapshotPath))
	case ProviderGoogleDrive:
		adapter, err := infraServices.NewGoogleDriveAdapter(ctx, infraServices.GoogleDriveOptions{
			CredentialsPath: c.Config.GoogleDrive.CredentialsPath,
			TokenPath:       c.Config.GoogleDrive.TokenPath,
			APIKey:          c.Config.GoogleDrive.APIKey,
			PageSize:        c.Config.GoogleDrive.PageSize,
			MaxRetries:      c.Config.GoogleDrive.MaxRetries,
			RequestTimeout:  c.Config.GoogleDrive.GetRequestTimeout(),
			FolderURLBase:   c.Config.GoogleDrive.FolderURLBase,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Drive adapter: %w", err)
		}
		c.StorageProvider = adapter
	default:
		return fmt.Errorf("invalid storage provider: %q", c.Config.Storage.Provider)
	}

	c.Metrics = metrics.NewScanMetrics()
	return nil
}

func (c *Container) initializeUseCases() {
	c.DuplicateScanUseCase = usecases.NewDuplicateScanUseCase(
		c.StorageProvider,
		c.ReportRepos,
		c.Metrics,
		c.Logger,
		c.Config.Report.Palette,
		c.Config.Scan.MaxFiles,
	)
}

// Close properly shuts down all resources
func (c *Container) Close() error {
	var firstErr error
	for _, repo := range c.ReportRepos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.ReportRepos = nil
	return firstErr
}
