// ABOUTME: Help display for the quire CLI with commands, flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for QUIRE_* variable detection.

package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "quire %s: content version comparison\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  quire [-config quire.yaml] diff [flags] <versionA> <versionB>")
	fmt.Fprintln(w, "  quire [-config quire.yaml] snapshot [flags] <baseVersion> <draftFile>")
	fmt.Fprintln(w, "  quire [-config quire.yaml] list [-dir DIR]")
	fmt.Fprintln(w, "  quire -version")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diff Flags:")
	fmt.Fprintln(w, "  -dir <dir>        Directory of <id>.yaml / <id>.json version documents")
	fmt.Fprintln(w, "  -lang <tag>       Language to compare (default: config default_language)")
	fmt.Fprintln(w, "  -json             Print the comparison as JSON")
	fmt.Fprintln(w, "  -text             Print unified line diffs of changed content")
	fmt.Fprintln(w, "  -context <n>      Context lines for -text (default: 3)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Snapshot Flags:")
	fmt.Fprintln(w, "  -dir <dir>        Directory holding the base version")
	fmt.Fprintln(w, "  -lang <tag>       Language for the change summary")
	fmt.Fprintln(w, "  -label <text>     Label for the new draft version")
	fmt.Fprintln(w, "  -by <name>        Author recorded on the new draft version")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  quire diff -dir ./versions spring summer")
	fmt.Fprintln(w, "  quire diff -lang de -text spring summer")
	fmt.Fprintln(w, "  quire snapshot -label \"summer v2\" spring ./summer-edits.yaml")
	fmt.Fprintln(w, "  quire list -dir ./versions")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	for _, key := range []string{
		"QUIRE_VERSIONS_DIR", "QUIRE_DEFAULT_LANGUAGE", "QUIRE_MAX_HISTORY",
		"QUIRE_DEBOUNCE_MS", "QUIRE_MAX_SESSIONS", "QUIRE_SESSION_TTL",
	} {
		fmt.Fprintf(w, "  %-24s %s\n", key, envStatus(key))
	}
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
