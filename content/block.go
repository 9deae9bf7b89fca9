// ABOUTME: Block is the smallest editable unit of site content, keyed within a section and language.
// ABOUTME: Provides copy and language-filter helpers so callers never share block slices with the engine.

package content

import (
	"sort"
)

// Block is one editable piece of content on a page.
// All fields are scalars, so copying the struct value copies the block.
type Block struct {
	BlockKey   string `json:"block_key" yaml:"block_key"`
	SectionKey string `json:"section_key" yaml:"section_key"`
	Language   string `json:"language" yaml:"language"`
	Content    string `json:"content" yaml:"content"`
	Metadata   string `json:"metadata" yaml:"metadata"`
	SortOrder  int    `json:"sort_order" yaml:"sort_order"`
}

// CloneBlocks returns an independent copy of blocks. A nil input yields an
// empty, non-nil slice so a snapshot of "no blocks" is still a snapshot.
func CloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}

// FilterLanguage returns a copy of the blocks whose Language equals lang,
// preserving input order.
func FilterLanguage(blocks []Block, lang string) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Language == lang {
			out = append(out, b)
		}
	}
	return out
}

// Languages returns the distinct languages present in blocks, sorted.
func Languages(blocks []Block) []string {
	seen := make(map[string]struct{})
	for _, b := range blocks {
		seen[b.Language] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// EqualBlocks reports whether a and b hold the same blocks in the same order.
func EqualBlocks(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
