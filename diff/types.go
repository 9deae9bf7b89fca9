// ABOUTME: Result types for version comparison: per-block classification grouped into sections.
// ABOUTME: Counts on SectionDiff and Result are derived from the block classifications.

package diff

import "github.com/2389-research/quire/content"

// Type classifies how a block changed between two versions.
type Type string

const (
	Added     Type = "added"
	Removed   Type = "removed"
	Modified  Type = "modified"
	Unchanged Type = "unchanged"
)

// BlockDiff describes one block key. BlockA is the old version's block and
// BlockB the new one's; either is nil when the key is absent on that side.
type BlockDiff struct {
	BlockKey        string         `json:"block_key"`
	SectionKey      string         `json:"section_key"`
	Type            Type           `json:"diff_type"`
	BlockA          *content.Block `json:"block_a"`
	BlockB          *content.Block `json:"block_b"`
	ContentChanged  bool           `json:"content_changed"`
	MetadataChanged bool           `json:"metadata_changed"`
}

// sortOrder prefers the new version's position.
func (d BlockDiff) sortOrder() int {
	switch {
	case d.BlockB != nil:
		return d.BlockB.SortOrder
	case d.BlockA != nil:
		return d.BlockA.SortOrder
	default:
		return 0
	}
}

// SectionDiff groups the block diffs of one page section.
type SectionDiff struct {
	SectionKey     string      `json:"section_key"`
	Blocks         []BlockDiff `json:"blocks"`
	AddedCount     int         `json:"added_count"`
	RemovedCount   int         `json:"removed_count"`
	ModifiedCount  int         `json:"modified_count"`
	UnchangedCount int         `json:"unchanged_count"`
}

func (s *SectionDiff) count() {
	s.AddedCount, s.RemovedCount, s.ModifiedCount, s.UnchangedCount = 0, 0, 0, 0
	for _, b := range s.Blocks {
		switch b.Type {
		case Added:
			s.AddedCount++
		case Removed:
			s.RemovedCount++
		case Modified:
			s.ModifiedCount++
		case Unchanged:
			s.UnchangedCount++
		}
	}
}

// Result is the full comparison of two versions in one language.
type Result struct {
	VersionA       string        `json:"version_a"`
	VersionB       string        `json:"version_b"`
	Language       string        `json:"language"`
	Sections       []SectionDiff `json:"sections"`
	TotalAdded     int           `json:"total_added"`
	TotalRemoved   int           `json:"total_removed"`
	TotalModified  int           `json:"total_modified"`
	TotalUnchanged int           `json:"total_unchanged"`
}

// HasChanges reports whether any block was added, removed, or modified.
func (r *Result) HasChanges() bool {
	return r.TotalAdded+r.TotalRemoved+r.TotalModified > 0
}

// Total returns the number of distinct block keys compared.
func (r *Result) Total() int {
	return r.TotalAdded + r.TotalRemoved + r.TotalModified + r.TotalUnchanged
}
