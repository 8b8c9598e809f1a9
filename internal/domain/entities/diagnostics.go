package entities

import (
	"fmt"
)

// WarningKind classifies a non-fatal integrity problem
type WarningKind string

const (
	WarningMissingParent        WarningKind = "missing_parent"
	WarningUnknownParent        WarningKind = "unknown_parent"
	WarningAncestorWalkExceeded WarningKind = "ancestor_walk_exceeded"
	WarningUnresolvedFileParent WarningKind = "unresolved_file_parent"
	WarningInvalidSize          WarningKind = "invalid_size"
	WarningInvalidTime          WarningKind = "invalid_time"
)

// IntegrityWarning describes a problem that degraded the output without aborting the scan
type IntegrityWarning struct {
	Kind     WarningKind `json:"kind"`
	EntityID string      `json:"entityId"`
	Name     string      `json:"name,omitempty"`
	ParentID string      `json:"parentId,omitempty"`
	Message  string      `json:"message"`
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("%s %s (%s): %s", w.Kind, w.EntityID, w.Name, w.Message)
}

// Diagnostics collects integrity warnings and skipped-record counts for one scan
type Diagnostics struct {
	Warnings []IntegrityWarning `json:"warnings,omitempty"`
	Skipped  int                `json:"skipped"`
}

// NewDiagnostics creates an empty collector
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{Warnings: make([]IntegrityWarning, 0)}
}

// Warn records an integrity warning
func (d *Diagnostics) Warn(w IntegrityWarning) {
	d.Warnings = append(d.Warnings, w)
}

// Skip counts a record excluded from analysis
func (d *Diagnostics) Skip() {
	d.Skipped++
}

// Merge appends the contents of other
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Skipped += other.Skipped
}

// Count returns the number of warnings of the given kind
func (d *Diagnostics) Count(kind WarningKind) int {
	n := 0
	for _, w := range d.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// HasWarnings returns true if any warning was recorded
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}
