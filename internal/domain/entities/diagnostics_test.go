package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	d := NewDiagnostics()
	assert.False(t, d.HasWarnings())

	d.Warn(IntegrityWarning{Kind: WarningMissingParent, EntityID: "f1"})
	d.Skip()

	other := NewDiagnostics()
	other.Warn(IntegrityWarning{Kind: WarningUnknownParent, EntityID: "f2"})
	other.Warn(IntegrityWarning{Kind: WarningUnknownParent, EntityID: "f3"})
	other.Skip()
	other.Skip()

	d.Merge(other)
	d.Merge(nil)

	assert.True(t, d.HasWarnings())
	assert.Len(t, d.Warnings, 3)
	assert.Equal(t, 3, d.Skipped)
	assert.Equal(t, 2, d.Count(WarningUnknownParent))
	assert.Equal(t, 0, d.Count(WarningInvalidSize))
}

func TestIntegrityWarningString(t *testing.T) {
	w := IntegrityWarning{Kind: WarningUnknownParent, EntityID: "F2", Name: "Two", Message: "no parent"}
	assert.Equal(t, "unknown_parent F2 (Two): no parent", w.String())
}

func TestValidationError(t *testing.T) {
	var err error = fmt.Errorf("build: %w", &ValidationError{RootID: "root", ParentID: "p"})

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "p", validation.ParentID)
	assert.Contains(t, err.Error(), "expected root folder root to have no parent but found p")
}
