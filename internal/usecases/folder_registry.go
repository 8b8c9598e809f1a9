package usecases

import (
	"fmt"
	"go-drive-dedup/internal/domain/entities"

	"go.uber.org/zap"
)

// FolderRegistry builds the in-memory folder tree for a scan
type FolderRegistry struct {
	logger *zap.Logger
}

// NewFolderRegistry creates a new folder registry
func NewFolderRegistry(logger *zap.Logger) *FolderRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FolderRegistry{logger: logger}
}

// Build maps every listed folder by id and anchors the map on a synthetic root entry.
// Dangling parent references are reported in the diagnostics; only a root listed
// with a parent fails the build.
func (r *FolderRegistry) Build(folders []*entities.RawFolder, rootID string) (*entities.FolderMap, *entities.Diagnostics, error) {
	if rootID == "" {
		return nil, nil, fmt.Errorf("root folder id is required")
	}

	builder := entities.NewFolderMapBuilder(rootID)
	for _, raw := range folders {
		if raw == nil || raw.ID == "" {
			continue
		}
		if raw.ID == rootID {
			if parentID := raw.ParentID(); parentID != "" {
				return nil, nil, &entities.ValidationError{RootID: rootID, ParentID: parentID}
			}
			continue
		}
		builder.Put(&entities.Folder{
			ID:       raw.ID,
			Name:     raw.Name,
			ParentID: raw.ParentID(),
		})
	}

	// The root is rarely part of an owner search, so it is always added here
	builder.Put(&entities.Folder{ID: rootID, Name: "", IsRoot: true})
	folderMap := builder.Build()

	diagnostics := entities.NewDiagnostics()
	for _, folder := range folderMap.Folders() {
		if folder.IsRoot {
			continue
		}
		if !folder.HasParent() {
			r.warn(diagnostics, entities.IntegrityWarning{
				Kind:     entities.WarningMissingParent,
				EntityID: folder.ID,
				Name:     folder.Name,
				Message:  "expected folder to have a parent but found none",
			})
			continue
		}
		if !folderMap.Has(folder.ParentID) {
			r.warn(diagnostics, entities.IntegrityWarning{
				Kind:     entities.WarningUnknownParent,
				EntityID: folder.ID,
				Name:     folder.Name,
				ParentID: folder.ParentID,
				Message:  "expected folder to have a parent but found none in map",
			})
		}
	}

	r.logger.Debug("folder registry built",
		zap.Int("folders", folderMap.Len()),
		zap.Int("warnings", len(diagnostics.Warnings)))

	return folderMap, diagnostics, nil
}

func (r *FolderRegistry) warn(diagnostics *entities.Diagnostics, w entities.IntegrityWarning) {
	diagnostics.Warn(w)
	r.logger.Warn(w.Message,
		zap.String("kind", string(w.Kind)),
		zap.String("folder_id", w.EntityID),
		zap.String("name", w.Name),
		zap.String("parent_id", w.ParentID))
}
