// ABOUTME: Package history provides the undo/redo engine for draft content edits.
// ABOUTME: See Manager for the state machine and debounce rules.

// Package history keeps a bounded, linear undo/redo history of content block
// snapshots for an editor.
//
// Edits arrive through PushState on every change. Rapid pushes are coalesced
// by a debounce timer: only the last push in a quiet window becomes a history
// entry. Committing a new entry clears the redo branch, so history never forks.
//
//	m := history.New(history.WithMaxHistory(100))
//	m.Initialize(blocks)
//	m.PushState(edited, "typing")
//	...
//	if prev, ok := m.Undo(); ok {
//		render(prev)
//	}
package history
