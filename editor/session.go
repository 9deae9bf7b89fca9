// ABOUTME: Session binds one document being edited to its undo/redo history.
// ABOUTME: Edits are debounced into history entries; comparisons run against the working draft.

package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2389-research/quire/content"
	"github.com/2389-research/quire/diff"
	"github.com/2389-research/quire/history"
)

// Session is one editor tab working on a document in a single language.
type Session struct {
	mu         sync.RWMutex
	ID         string
	DocumentID string
	Language   string
	CreatedAt  time.Time
	LastAccess time.Time

	history *history.Manager
}

// Edit records the editor's current blocks. Rapid edits coalesce into one
// undo step once the debounce period passes.
func (sess *Session) Edit(blocks []content.Block, description string) {
	sess.history.PushState(blocks, description)
}

// Undo restores the previous state. Returns false when there is nothing to undo.
func (sess *Session) Undo() ([]content.Block, bool) {
	return sess.history.Undo()
}

// Redo re-applies an undone state. Returns false when there is nothing to redo.
func (sess *Session) Redo() ([]content.Block, bool) {
	return sess.history.Redo()
}

// Current returns a copy of the committed working draft.
func (sess *Session) Current() ([]content.Block, bool) {
	return sess.history.CurrentState()
}

// Status returns undo/redo availability for the toolbar.
func (sess *Session) Status() history.Status {
	return sess.history.Status()
}

// Flush commits a pending edit immediately, e.g. before saving a draft.
func (sess *Session) Flush() bool {
	return sess.history.Flush()
}

// SwitchDocument points the session at another document and starts a fresh
// history from blocks.
func (sess *Session) SwitchDocument(documentID string, blocks []content.Block) {
	sess.mu.Lock()
	sess.DocumentID = documentID
	sess.mu.Unlock()

	sess.history.Initialize(blocks)
}

// Document returns the ID of the document currently being edited.
func (sess *Session) Document() string {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.DocumentID
}

// Snapshot commits any pending edit and returns the working draft as a new
// draft Version with a fresh ID, ready to hand to whatever stores versions.
func (sess *Session) Snapshot(label, createdBy string) (content.Version, error) {
	sess.history.Flush()

	blocks, ok := sess.history.CurrentState()
	if !ok {
		return content.Version{}, fmt.Errorf("session %s has no working draft", sess.ID)
	}
	return content.NewVersion(label, createdBy, blocks), nil
}

// Compare diffs the fetched version otherID (old) against the working draft
// (new) in the session's language. Pending edits are committed first.
func (sess *Session) Compare(ctx context.Context, f diff.Fetcher, otherID string) (*diff.Result, error) {
	if otherID == "" {
		return nil, diff.ErrMissingVersionID
	}
	draft, err := sess.Snapshot("draft of "+sess.Document(), "session:"+sess.ID)
	if err != nil {
		return nil, err
	}

	other, err := f.FetchVersion(ctx, otherID)
	if err != nil {
		return nil, &diff.FetchError{VersionID: otherID, Err: err}
	}
	if other == nil {
		return nil, &diff.FetchError{VersionID: otherID, Err: diff.ErrNilVersion}
	}

	res := diff.CompareVersions(*other, draft, sess.Language)
	return &res, nil
}

func (sess *Session) touch(now time.Time) {
	sess.mu.Lock()
	sess.LastAccess = now
	sess.mu.Unlock()
}

func (sess *Session) lastAccess() time.Time {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.LastAccess
}

func (sess *Session) close() {
	sess.history.Close()
}
