package entities

import (
	"fmt"
)

// DuplicateGroup represents a group of files that share the same checksum
type DuplicateGroup struct {
	Index    int     `json:"groupIndex"`
	Checksum string  `json:"checksum"`
	Files    []*File `json:"files"`
}

// NewDuplicateGroup creates a new group for the given checksum
func NewDuplicateGroup(checksum string) *DuplicateGroup {
	return &DuplicateGroup{
		Checksum: checksum,
		Files:    make([]*File, 0, 2),
	}
}

// AddFile adds a file to the group
func (dg *DuplicateGroup) AddFile(file *File) error {
	if file.Checksum != dg.Checksum {
		return fmt.Errorf("file checksum %s does not match group checksum %s", file.Checksum, dg.Checksum)
	}
	dg.Files = append(dg.Files, file)
	return nil
}

// Count returns the number of members
func (dg *DuplicateGroup) Count() int {
	return len(dg.Files)
}

// IsValid returns true if the group has more than one file (actual duplicates)
func (dg *DuplicateGroup) IsValid() bool {
	return len(dg.Files) > 1
}

// GetWastedSpace returns the bytes taken by every copy beyond the first.
// Members are trusted to share content, so the first member's size stands for all.
func (dg *DuplicateGroup) GetWastedSpace() int64 {
	if len(dg.Files) <= 1 {
		return 0
	}
	return dg.Files[0].Size * int64(len(dg.Files)-1)
}

// DuplicateGroups is an ordered collection of groups keyed by checksum.
// Order is the first-seen order of each checksum.
type DuplicateGroups struct {
	groups     []*DuplicateGroup
	byChecksum map[string]*DuplicateGroup
}

// NewDuplicateGroups creates an empty collection
func NewDuplicateGroups() *DuplicateGroups {
	return &DuplicateGroups{
		byChecksum: make(map[string]*DuplicateGroup),
	}
}

// Add places the file in the group for its checksum, creating the group on first sight
func (g *DuplicateGroups) Add(file *File) error {
	group, ok := g.byChecksum[file.Checksum]
	if !ok {
		group = NewDuplicateGroup(file.Checksum)
		g.byChecksum[file.Checksum] = group
		g.groups = append(g.groups, group)
	}
	return group.AddFile(file)
}

// Append adds an already-built group at the end of the collection
func (g *DuplicateGroups) Append(group *DuplicateGroup) {
	g.byChecksum[group.Checksum] = group
	g.groups = append(g.groups, group)
}

// Get returns the group for a checksum
func (g *DuplicateGroups) Get(checksum string) (*DuplicateGroup, bool) {
	group, ok := g.byChecksum[checksum]
	return group, ok
}

// Groups returns the groups in first-seen order
func (g *DuplicateGroups) Groups() []*DuplicateGroup {
	return g.groups
}

// Len returns the number of groups
func (g *DuplicateGroups) Len() int {
	return len(g.groups)
}

// FileCount returns the number of files across all groups
func (g *DuplicateGroups) FileCount() int {
	total := 0
	for _, group := range g.groups {
		total += group.Count()
	}
	return total
}

// WastedSpace returns the total wasted space across all groups
func (g *DuplicateGroups) WastedSpace() int64 {
	var total int64
	for _, group := range g.groups {
		total += group.GetWastedSpace()
	}
	return total
}
