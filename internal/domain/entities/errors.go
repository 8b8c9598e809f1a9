package entities

import (
	"fmt"
)

// ValidationError reports a listing that contradicts the single-root invariant.
// It is fatal: every folder path is anchored on the root.
type ValidationError struct {
	RootID   string
	ParentID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("expected root folder %s to have no parent but found %s", e.RootID, e.ParentID)
}
