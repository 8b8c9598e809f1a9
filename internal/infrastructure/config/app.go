package config

import (
	"context"
	"fmt"
	"go-drive-dedup/internal/infrastructure/logging"
	"go-drive-dedup/internal/usecases"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Application runs one duplicate scan with the configured provider and sinks
type Application struct {
	container *Container
	config    *Config
	logger    *zap.Logger
}

// NewApplication validates the configuration and wires the container
func NewApplication(ctx context.Context, config *Config) (*Application, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return newApplication(ctx, config, logger)
}

func newApplication(ctx context.Context, config *Config, logger *zap.Logger) (*Application, error) {
	container, err := NewContainer(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &Application{
		container: container,
		config:    config,
		logger:    logger,
	}, nil
}

// Container returns the wired dependencies
func (app *Application) Container() *Container {
	return app.container
}

// Run performs the scan. An interrupt or SIGTERM cancels it.
func (app *Application) Run(ctx context.Context) (*usecases.ScanResponse, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info("scan configured",
		zap.String("provider", app.config.Storage.Provider),
		zap.String("csv", app.config.Report.CSVPath),
		zap.String("sqlite", app.config.Report.SQLitePath),
		zap.Int("max_files", app.config.Scan.MaxFiles))

	response, err := app.container.DuplicateScanUseCase.Scan(ctx, &usecases.ScanRequest{})
	if err != nil {
		return nil, err
	}

	if path := app.config.Metrics.TextfilePath; path != "" {
		if err := app.container.Metrics.WriteTextfile(path); err != nil {
			return nil, fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		app.logger.Info("metrics written", zap.String("path", path))
	}

	return response, nil
}

// Close releases the sinks and flushes the logger
func (app *Application) Close() error {
	err := app.container.Close()
	_ = app.logger.Sync()
	return err
}
