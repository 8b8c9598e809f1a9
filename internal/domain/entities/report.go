package entities

import (
	"time"
)

// ReportRow is one rendered duplicate member
type ReportRow struct {
	GroupIndex   int       `json:"groupIndex" db:"group_index"`
	ID           string    `json:"id" db:"file_id"`
	Name         string    `json:"name" db:"name"`
	Path         string    `json:"path" db:"path"`
	Parent       string    `json:"parent" db:"parent"`
	ParentID     string    `json:"parentId" db:"parent_id"`
	ParentURL    string    `json:"parentUrl" db:"parent_url"`
	Size         int64     `json:"size" db:"size"`
	MimeType     string    `json:"mimeType" db:"mime_type"`
	Checksum     string    `json:"checksum" db:"checksum"`
	ModifiedTime time.Time `json:"modifiedTime" db:"modified_time"`
	CreatedTime  time.Time `json:"createdTime" db:"created_time"`
}

// NewReportRow builds a row for a member of the group at index
func NewReportRow(index int, file *File) ReportRow {
	return ReportRow{
		GroupIndex:   index,
		ID:           file.ID,
		Name:         file.Name,
		Path:         file.Path,
		Parent:       file.Parent,
		ParentID:     file.ParentID,
		ParentURL:    file.ParentURL,
		Size:         file.Size,
		MimeType:     file.MimeType,
		Checksum:     file.Checksum,
		ModifiedTime: file.ModifiedTime,
		CreatedTime:  file.CreatedTime,
	}
}

// Report is the flattened duplicate report with a background colour per row
type Report struct {
	Rows    []ReportRow `json:"rows"`
	Colors  []string    `json:"colors"`
	Summary ScanSummary `json:"summary"`
}
