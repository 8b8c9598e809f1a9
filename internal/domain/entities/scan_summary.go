package entities

import (
	"time"
)

// ScanSummary holds the counters reported at the end of a scan
type ScanSummary struct {
	RootID            string        `json:"rootId" db:"root_id"`
	Folders           int           `json:"folders" db:"folders"`
	FilesExamined     int           `json:"filesExamined" db:"files_examined"`
	FilesAccepted     int           `json:"filesAccepted" db:"files_accepted"`
	Skipped           int           `json:"skipped" db:"skipped"`
	UniqueChecksums   int           `json:"uniqueChecksums" db:"unique_checksums"`
	DuplicateGroups   int           `json:"duplicateGroups" db:"duplicate_groups"`
	DuplicateFiles    int           `json:"duplicateFiles" db:"duplicate_files"`
	WastedSpace       int64         `json:"wastedSpace" db:"wasted_space"`
	IntegrityWarnings int           `json:"integrityWarnings" db:"integrity_warnings"`
	StartedAt         time.Time     `json:"startedAt" db:"started_at"`
	Duration          time.Duration `json:"duration" db:"-"`
}
