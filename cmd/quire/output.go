// ABOUTME: Plain-text rendering of a version comparison for the terminal.
// ABOUTME: One header, one line per section, one line per changed block, optional unified diffs.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/2389-research/quire/diff"
)

var typeMarks = map[diff.Type]string{
	diff.Added:     "+",
	diff.Removed:   "-",
	diff.Modified:  "~",
	diff.Unchanged: "=",
}

// printResult writes a summary of res. Unchanged blocks are counted but not
// listed. With withText, each content change is followed by its line diff.
func printResult(w io.Writer, res *diff.Result, withText bool, context int) error {
	fmt.Fprintf(w, "Comparing %s -> %s (%s)\n", res.VersionA, res.VersionB, res.Language)
	fmt.Fprintf(w, "%d blocks: %d added, %d removed, %d modified, %d unchanged\n",
		res.Total(), res.TotalAdded, res.TotalRemoved, res.TotalModified, res.TotalUnchanged)

	if !res.HasChanges() {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	for _, sec := range res.Sections {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[%s] +%d -%d ~%d =%d\n",
			sec.SectionKey, sec.AddedCount, sec.RemovedCount, sec.ModifiedCount, sec.UnchangedCount)

		for _, bd := range sec.Blocks {
			if bd.Type == diff.Unchanged {
				continue
			}
			fmt.Fprintf(w, "  %s %s%s\n", typeMarks[bd.Type], bd.BlockKey, changedFields(bd))

			if !withText {
				continue
			}
			text, err := diff.LineDiff(bd, context)
			if err != nil {
				return err
			}
			for _, line := range strings.SplitAfter(text, "\n") {
				if line != "" {
					fmt.Fprintf(w, "      %s", line)
				}
			}
			if text != "" && !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(w)
			}
		}
	}
	return nil
}

func changedFields(bd diff.BlockDiff) string {
	if bd.Type != diff.Modified {
		return ""
	}
	var fields []string
	if bd.ContentChanged {
		fields = append(fields, "content")
	}
	if bd.MetadataChanged {
		fields = append(fields, "metadata")
	}
	return " (" + strings.Join(fields, ", ") + ")"
}
