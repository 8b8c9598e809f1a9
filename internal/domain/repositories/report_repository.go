package repositories

import (
	"context"
	"go-drive-dedup/internal/domain/entities"
)

// ReportRepository defines the interface for rendered report sinks
type ReportRepository interface {
	// Save replaces any previously stored report with this one
	Save(ctx context.Context, report *entities.Report) error
	Close() error
}
