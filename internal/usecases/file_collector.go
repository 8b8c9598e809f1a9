package usecases

import (
	"context"
	"errors"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/domain/services"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileCollector drains a file listing into checksum-bearing File records
type FileCollector struct {
	logger *zap.Logger
}

// NewFileCollector creates a new file collector
func NewFileCollector(logger *zap.Logger) *FileCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCollector{logger: logger}
}

// CollectResult is the aggregate produced by Collect
type CollectResult struct {
	Files       []*entities.File
	Examined    int
	Skipped     int
	Diagnostics *entities.Diagnostics
}

// Collect reads at most maxCount accepted records from the iterator (maxCount <= 0 means
// no limit). Records without a checksum are counted as skipped and dropped.
func (c *FileCollector) Collect(ctx context.Context, files services.FileIterator, maxCount int) (*CollectResult, error) {
	result := &CollectResult{
		Files:       make([]*entities.File, 0),
		Diagnostics: entities.NewDiagnostics(),
	}

	for maxCount <= 0 || len(result.Files) < maxCount {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := files.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file listing after %d files: %w", result.Examined, err)
		}
		if raw == nil {
			continue
		}
		result.Examined++

		// Zero-byte and native Google formats come back without a checksum
		if !raw.HasChecksum() {
			c.logger.Debug("skipping file without checksum",
				zap.String("file_id", raw.ID),
				zap.String("name", raw.Name),
				zap.String("size", raw.Size),
				zap.String("mime_type", raw.MimeType))
			result.Diagnostics.Skip()
			continue
		}

		result.Files = append(result.Files, c.normalize(raw, result.Diagnostics))
	}

	result.Skipped = result.Diagnostics.Skipped
	return result, nil
}

func (c *FileCollector) normalize(raw *entities.RawFile, diagnostics *entities.Diagnostics) *entities.File {
	return &entities.File{
		ID:           raw.ID,
		Name:         raw.Name,
		Size:         c.parseSize(raw, diagnostics),
		MimeType:     raw.MimeType,
		ParentID:     raw.ParentID(),
		Checksum:     raw.Checksum,
		ModifiedTime: c.parseTime(raw, "modifiedTime", raw.ModifiedTime, diagnostics),
		CreatedTime:  c.parseTime(raw, "createdTime", raw.CreatedTime, diagnostics),
	}
}

func (c *FileCollector) parseSize(raw *entities.RawFile, diagnostics *entities.Diagnostics) int64 {
	value := strings.TrimSpace(raw.Size)
	if value == "" {
		return 0
	}
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size < 0 {
		c.warn(diagnostics, entities.IntegrityWarning{
			Kind:     entities.WarningInvalidSize,
			EntityID: raw.ID,
			Name:     raw.Name,
			Message:  fmt.Sprintf("invalid size %q, using 0", raw.Size),
		})
		return 0
	}
	return size
}

func (c *FileCollector) parseTime(raw *entities.RawFile, field, value string, diagnostics *entities.Diagnostics) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.warn(diagnostics, entities.IntegrityWarning{
			Kind:     entities.WarningInvalidTime,
			EntityID: raw.ID,
			Name:     raw.Name,
			Message:  fmt.Sprintf("invalid %s %q", field, value),
		})
		return time.Time{}
	}
	return t
}

func (c *FileCollector) warn(diagnostics *entities.Diagnostics, w entities.IntegrityWarning) {
	diagnostics.Warn(w)
	c.logger.Warn(w.Message,
		zap.String("kind", string(w.Kind)),
		zap.String("file_id", w.EntityID),
		zap.String("name", w.Name))
}
