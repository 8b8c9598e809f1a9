package usecases

import (
	"go-drive-dedup/internal/domain/entities"
	"strings"

	"go.uber.org/zap"
)

// PathResolver derives a slash-joined path for every folder in a registry
type PathResolver struct {
	logger *zap.Logger
}

// NewPathResolver creates a new path resolver
func NewPathResolver(logger *zap.Logger) *PathResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathResolver{logger: logger}
}

// ResolvePaths sets Path on every folder of the map.
//
// A folder contributes its name once its parent link resolves, so a folder directly
// under the root gets its own name and the root gets "". The walk stops silently at a
// missing parent, leaving the segments gathered so far. Each walk is bounded by the
// number of folders; a walk that runs out is reported and keeps its partial path.
func (p *PathResolver) ResolvePaths(folders *entities.FolderMap) *entities.Diagnostics {
	diagnostics := entities.NewDiagnostics()
	fuel := folders.Len()

	// Paths are computed from names and parent links only, then written in one pass
	all := folders.Folders()
	paths := make([]string, len(all))
	for i, folder := range all {
		path, complete := resolveFolderPath(folders, folder, fuel)
		paths[i] = path
		if !complete {
			w := entities.IntegrityWarning{
				Kind:     entities.WarningAncestorWalkExceeded,
				EntityID: folder.ID,
				Name:     folder.Name,
				ParentID: folder.ParentID,
				Message:  "ancestor walk exceeded folder count, parent chain is cyclic",
			}
			diagnostics.Warn(w)
			p.logger.Warn(w.Message,
				zap.String("folder_id", folder.ID),
				zap.String("name", folder.Name),
				zap.Int("limit", fuel))
		}
	}
	for i, folder := range all {
		folder.Path = paths[i]
	}

	return diagnostics
}

// resolveFolderPath walks parent links iteratively. complete is false when the
// step bound was hit before the walk ended.
func resolveFolderPath(folders *entities.FolderMap, folder *entities.Folder, fuel int) (path string, complete bool) {
	var segments []string
	current := folder
	for steps := 0; current.HasParent(); steps++ {
		if steps >= fuel {
			return joinSegments(segments), false
		}
		parent, ok := folders.Get(current.ParentID)
		if !ok {
			break
		}
		segments = append(segments, current.Name)
		current = parent
	}
	return joinSegments(segments), true
}

// joinSegments joins nearest-first segments in root-to-leaf order
func joinSegments(segments []string) string {
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}

// JoinPath appends name to a folder path, skipping an empty root path
func JoinPath(folderPath, name string) string {
	if folderPath == "" {
		return name
	}
	return folderPath + "/" + name
}
