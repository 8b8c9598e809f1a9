// Package report writes the duplicate report to flat files.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Header is the first row of every CSV report
var Header = []string{
	"groupIndex", "id", "name", "path", "parent", "parentId", "parentUrl",
	"size", "mimeType", "checksum", "modifiedTime", "createdTime", "color",
}

// CSVWriter saves reports as a CSV file, replacing it on every save
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer for the file at path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file path
func (w *CSVWriter) Path() string {
	return w.path
}

// Save writes the report to a temporary file and renames it over the target
func (w *CSVWriter) Save(ctx context.Context, report *entities.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, report); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), w.path)
}

func (w *CSVWriter) Close() error {
	return nil
}

// WriteCSV encodes the header and one record per report row
func WriteCSV(out io.Writer, report *entities.Report) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for i, row := range report.Rows {
		color := ""
		if i < len(report.Colors) {
			color = report.Colors[i]
		}
		record := []string{
			strconv.Itoa(row.GroupIndex),
			row.ID,
			row.Name,
			row.Path,
			row.Parent,
			row.ParentID,
			row.ParentURL,
			strconv.FormatInt(row.Size, 10),
			row.MimeType,
			row.Checksum,
			formatTime(row.ModifiedTime),
			formatTime(row.CreatedTime),
			color,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
