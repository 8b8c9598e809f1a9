package services

import (
	"context"
	"encoding/json"
	"fmt"
	"go-drive-dedup/internal/domain/entities"
	"go-drive-dedup/internal/domain/services"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is a point-in-time listing of a storage account
type Snapshot struct {
	RootID  string                `json:"rootId" yaml:"root_id"`
	Folders []*entities.RawFolder `json:"folders" yaml:"folders"`
	Files   []*entities.RawFile   `json:"files" yaml:"files"`
}

// LoadSnapshot reads a snapshot from a file (supports both JSON and YAML)
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	snapshot := &Snapshot{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
		}
	default:
		// Try JSON first, then YAML
		if err := json.Unmarshal(data, snapshot); err != nil {
			if yamlErr := yaml.Unmarshal(data, snapshot); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse snapshot as JSON or YAML: JSON error: %v, YAML error: %v", err, yamlErr)
			}
		}
	}

	if snapshot.RootID == "" {
		return nil, fmt.Errorf("snapshot %s has no root id", path)
	}
	return snapshot, nil
}

// SnapshotStorageProvider serves a recorded listing, for offline runs and tests
type SnapshotStorageProvider struct {
	snapshot      *Snapshot
	folderURLBase string
}

// NewSnapshotStorageProvider creates a provider over an in-memory snapshot
func NewSnapshotStorageProvider(snapshot *Snapshot, folderURLBase string) *SnapshotStorageProvider {
	if folderURLBase == "" {
		folderURLBase = DefaultFolderURLBase
	}
	return &SnapshotStorageProvider{snapshot: snapshot, folderURLBase: folderURLBase}
}

func (s *SnapshotStorageProvider) GetProviderName() string {
	return "Snapshot"
}

func (s *SnapshotStorageProvider) FolderURL(folderID string) string {
	return s.folderURLBase + folderID
}

func (s *SnapshotStorageProvider) RootFolderID(ctx context.Context) (string, error) {
	return s.snapshot.RootID, nil
}

func (s *SnapshotStorageProvider) ListFolders(ctx context.Context) ([]*entities.RawFolder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	folders := make([]*entities.RawFolder, len(s.snapshot.Folders))
	copy(folders, s.snapshot.Folders)
	return folders, nil
}

func (s *SnapshotStorageProvider) ListFiles(ctx context.Context) (services.FileIterator, error) {
	return NewSliceFileIterator(s.snapshot.Files), nil
}

// SliceFileIterator iterates over an in-memory file listing once
type SliceFileIterator struct {
	files []*entities.RawFile
	pos   int
}

// NewSliceFileIterator creates an iterator over files
func NewSliceFileIterator(files []*entities.RawFile) *SliceFileIterator {
	return &SliceFileIterator{files: files}
}

func (it *SliceFileIterator) Next(ctx context.Context) (*entities.RawFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if it.pos >= len(it.files) {
		return nil, io.EOF
	}
	file := it.files[it.pos]
	it.pos++
	return file, nil
}
