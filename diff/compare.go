// ABOUTME: CompareVersions reduces two version snapshots to a section-grouped block diff.
// ABOUTME: Pure and deterministic: sections by key, blocks by sort order then block key.

package diff

import (
	"cmp"
	"slices"

	"github.com/2389-research/quire/content"
)

// CompareVersions classifies every block key of the given language found in
// either version. a is the old version and b the new one.
//
// Duplicate block keys within one version violate the data model; the last
// occurrence wins.
func CompareVersions(a, b content.Version, language string) Result {
	idxA := indexBlocks(a.ContentBlocks, language)
	idxB := indexBlocks(b.ContentBlocks, language)

	keys := make([]string, 0, len(idxA)+len(idxB))
	for k := range idxA {
		keys = append(keys, k)
	}
	for k := range idxB {
		if _, ok := idxA[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	sections := make(map[string]*SectionDiff)
	for _, key := range keys {
		bd := classify(key, idxA[key], idxB[key])
		sec, ok := sections[bd.SectionKey]
		if !ok {
			sec = &SectionDiff{SectionKey: bd.SectionKey}
			sections[bd.SectionKey] = sec
		}
		sec.Blocks = append(sec.Blocks, bd)
	}

	res := Result{
		VersionA: a.ID,
		VersionB: b.ID,
		Language: language,
		Sections: make([]SectionDiff, 0, len(sections)),
	}
	for _, sec := range sections {
		slices.SortStableFunc(sec.Blocks, func(x, y BlockDiff) int {
			if c := cmp.Compare(x.sortOrder(), y.sortOrder()); c != 0 {
				return c
			}
			return cmp.Compare(x.BlockKey, y.BlockKey)
		})
		sec.count()
		res.Sections = append(res.Sections, *sec)
	}
	slices.SortFunc(res.Sections, func(x, y SectionDiff) int {
		return cmp.Compare(x.SectionKey, y.SectionKey)
	})

	for _, sec := range res.Sections {
		res.TotalAdded += sec.AddedCount
		res.TotalRemoved += sec.RemovedCount
		res.TotalModified += sec.ModifiedCount
		res.TotalUnchanged += sec.UnchangedCount
	}
	return res
}

// indexBlocks maps block keys to copies of the blocks in the given language.
func indexBlocks(blocks []content.Block, language string) map[string]*content.Block {
	filtered := content.FilterLanguage(blocks, language)
	idx := make(map[string]*content.Block, len(filtered))
	for i := range filtered {
		idx[filtered[i].BlockKey] = &filtered[i]
	}
	return idx
}

func classify(key string, a, b *content.Block) BlockDiff {
	bd := BlockDiff{BlockKey: key, BlockA: a, BlockB: b}
	switch {
	case a == nil:
		bd.SectionKey = b.SectionKey
		bd.Type = Added
	case b == nil:
		bd.SectionKey = a.SectionKey
		bd.Type = Removed
	default:
		bd.SectionKey = b.SectionKey
		bd.ContentChanged = a.Content != b.Content
		bd.MetadataChanged = a.Metadata != b.Metadata
		if bd.ContentChanged || bd.MetadataChanged {
			bd.Type = Modified
		} else {
			bd.Type = Unchanged
		}
	}
	return bd
}
