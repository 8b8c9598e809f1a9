package usecases

import (
	"fmt"
	"go-drive-dedup/internal/domain/entities"

	"go.uber.org/zap"
)

// RootDisplayName is shown as the parent of files stored directly in the root
const RootDisplayName = "My Drive"

// DuplicateGrouper partitions files by checksum and locates duplicate members
type DuplicateGrouper struct {
	logger    *zap.Logger
	folderURL func(folderID string) string
}

// NewDuplicateGrouper creates a grouper; folderURL builds the parent link of each member
func NewDuplicateGrouper(logger *zap.Logger, folderURL func(folderID string) string) *DuplicateGrouper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if folderURL == nil {
		folderURL = func(string) string { return "" }
	}
	return &DuplicateGrouper{logger: logger, folderURL: folderURL}
}

// Group partitions files by exact checksum, in first-seen order.
// Sizes are not compared: equal checksums are trusted to mean equal content.
func (g *DuplicateGrouper) Group(files []*entities.File) (*entities.DuplicateGroups, error) {
	groups := entities.NewDuplicateGroups()
	for _, file := range files {
		if file.Checksum == "" {
			continue
		}
		if err := groups.Add(file); err != nil {
			return nil, fmt.Errorf("failed to group file %s: %w", file.ID, err)
		}
	}
	return groups, nil
}

// FilterDuplicates keeps the groups with at least two members and numbers them
// from 0 in their original order
func (g *DuplicateGrouper) FilterDuplicates(groups *entities.DuplicateGroups) *entities.DuplicateGroups {
	filtered := entities.NewDuplicateGroups()
	for _, group := range groups.Groups() {
		if !group.IsValid() {
			continue
		}
		group.Index = filtered.Len()
		filtered.Append(group)
	}
	return filtered
}

// AttachPaths sets path, parent name and parent link on every member using the
// resolved folder map. Members without a resolvable parent get the orphaned label.
func (g *DuplicateGrouper) AttachPaths(groups *entities.DuplicateGroups, folders *entities.FolderMap) *entities.Diagnostics {
	diagnostics := entities.NewDiagnostics()
	for _, group := range groups.Groups() {
		for _, file := range group.Files {
			if file.IsOrphaned() {
				file.MarkOrphaned()
				continue
			}

			parent, ok := folders.Get(file.ParentID)
			if !ok {
				w := entities.IntegrityWarning{
					Kind:     entities.WarningUnresolvedFileParent,
					EntityID: file.ID,
					Name:     file.Name,
					ParentID: file.ParentID,
					Message:  "file parent not found in folder map",
				}
				diagnostics.Warn(w)
				g.logger.Warn(w.Message,
					zap.String("file_id", file.ID),
					zap.String("name", file.Name),
					zap.String("parent_id", file.ParentID))
				file.MarkOrphaned()
				continue
			}

			parentName := parent.Name
			if parent.IsRoot {
				parentName = RootDisplayName
			}
			file.AttachLocation(JoinPath(parent.Path, file.Name), parentName, g.folderURL(parent.ID))
		}
	}
	return diagnostics
}
