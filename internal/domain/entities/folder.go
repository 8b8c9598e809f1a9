package entities

// FolderMimeType is the MIME type Drive reports for folders
const FolderMimeType = "application/vnd.google-apps.folder"

// RawFolder is a folder record as returned by the storage listing
type RawFolder struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// ParentID returns the first parent of the folder, or "" when it has none
func (r *RawFolder) ParentID() string {
	if len(r.Parents) == 0 {
		return ""
	}
	return r.Parents[0]
}

// Folder represents a folder owned by the scanned account
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"` // "" for the root
	Path     string `json:"path"`
	IsRoot   bool   `json:"isRoot,omitempty"`
}

// HasParent returns true if the folder references a parent
func (f *Folder) HasParent() bool {
	return f.ParentID != ""
}

// FolderMap is the registry of folders for a single scan, keyed by folder id.
// It keeps listing order so that iteration is reproducible. The set of folders
// is fixed once built; only the derived Path of each folder is written later.
type FolderMap struct {
	rootID  string
	folders map[string]*Folder
	order   []string
}

// FolderMapBuilder accumulates folders until Build is called
type FolderMapBuilder struct {
	m     *FolderMap
	built bool
}

// NewFolderMapBuilder creates a builder for a folder map anchored at rootID
func NewFolderMapBuilder(rootID string) *FolderMapBuilder {
	return &FolderMapBuilder{
		m: &FolderMap{
			rootID:  rootID,
			folders: make(map[string]*Folder),
		},
	}
}

// Put inserts or replaces a folder. A replaced folder keeps its original position.
// Put after Build is ignored.
func (b *FolderMapBuilder) Put(folder *Folder) {
	if b.built {
		return
	}
	if _, exists := b.m.folders[folder.ID]; !exists {
		b.m.order = append(b.m.order, folder.ID)
	}
	b.m.folders[folder.ID] = folder
}

// Lookup returns a folder already added to the builder
func (b *FolderMapBuilder) Lookup(id string) (*Folder, bool) {
	return b.m.Get(id)
}

// Build returns the populated folder map
func (b *FolderMapBuilder) Build() *FolderMap {
	b.built = true
	return b.m
}

// Get returns the folder with the given id
func (m *FolderMap) Get(id string) (*Folder, bool) {
	if id == "" {
		return nil, false
	}
	folder, ok := m.folders[id]
	return folder, ok
}

// Has returns true if the folder id is known
func (m *FolderMap) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// RootID returns the id of the root folder
func (m *FolderMap) RootID() string {
	return m.rootID
}

// Root returns the root folder
func (m *FolderMap) Root() *Folder {
	return m.folders[m.rootID]
}

// Len returns the number of folders, root included
func (m *FolderMap) Len() int {
	return len(m.order)
}

// Folders returns all folders in insertion order
func (m *FolderMap) Folders() []*Folder {
	result := make([]*Folder, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.folders[id])
	}
	return result
}
