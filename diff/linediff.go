// ABOUTME: Unified line diff of a single block's content for diff-viewer and CLI output.
// ABOUTME: Built on pmezard/go-difflib; metadata is not diffed line by line.

package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// LineDiff renders the content change of bd as a unified diff with the given
// number of context lines. Returns "" when the content did not change.
func LineDiff(bd BlockDiff, context int) (string, error) {
	var before, after string
	switch bd.Type {
	case Added:
		after = bd.BlockB.Content
	case Removed:
		before = bd.BlockA.Content
	case Modified:
		if !bd.ContentChanged {
			return "", nil
		}
		before, after = bd.BlockA.Content, bd.BlockB.Content
	default:
		return "", nil
	}

	name := bd.SectionKey + "/" + bd.BlockKey
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("line diff %s: %w", name, err)
	}
	return text, nil
}
