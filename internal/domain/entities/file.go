package entities

import (
	"time"
)

// OrphanedLabel marks files whose parent folder is missing or unresolved
const OrphanedLabel = "orphaned"

// RawFile is a file record as returned by the storage listing.
// Size is the decimal string Drive reports; Checksum is "" when the backend has none.
type RawFile struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Size         string   `json:"size,omitempty" yaml:"size,omitempty"`
	MimeType     string   `json:"mimeType" yaml:"mime_type"`
	Parents      []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	Checksum     string   `json:"md5Checksum,omitempty" yaml:"md5_checksum,omitempty"`
	ModifiedTime string   `json:"modifiedTime,omitempty" yaml:"modified_time,omitempty"`
	CreatedTime  string   `json:"createdTime,omitempty" yaml:"created_time,omitempty"`
}

// ParentID returns the first parent of the file, or "" for an orphaned file
func (r *RawFile) ParentID() string {
	if len(r.Parents) == 0 {
		return ""
	}
	return r.Parents[0]
}

// HasChecksum returns true if the backend supplied a content checksum
func (r *RawFile) HasChecksum() bool {
	return r.Checksum != ""
}

// File represents a collected file with a content checksum
type File struct {
	// Basic file metadata
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	ModifiedTime time.Time `json:"modifiedTime"`
	CreatedTime  time.Time `json:"createdTime"`

	// Content fingerprint supplied by the storage backend
	Checksum string `json:"checksum"`

	// Location, attached only for duplicate members
	ParentID  string `json:"parentId,omitempty"`
	Path      string `json:"path,omitempty"`
	Parent    string `json:"parent,omitempty"`
	ParentURL string `json:"parentUrl,omitempty"`
}

// IsOrphaned returns true if the file has no accessible parent
func (f *File) IsOrphaned() bool {
	return f.ParentID == ""
}

// AttachLocation sets the display location of the file
func (f *File) AttachLocation(path, parent, parentURL string) {
	f.Path = path
	f.Parent = parent
	f.ParentURL = parentURL
}

// MarkOrphaned sets the orphaned sentinel on every location field
func (f *File) MarkOrphaned() {
	f.AttachLocation(OrphanedLabel, OrphanedLabel, OrphanedLabel)
}
