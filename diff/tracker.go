// ABOUTME: Tracker holds loading/error/result state for a diff viewer and resolves requests in the background.
// ABOUTME: Each request gets a generation; results for superseded or closed requests are discarded.

package diff

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// TrackerState is a snapshot of a Tracker for rendering.
type TrackerState struct {
	VersionA string
	VersionB string
	Language string
	Loading  bool
	Result   *Result
	Err      error
	Message  string
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerOnUpdate registers a callback invoked with the new state after
// every applied change. It runs without the tracker's lock held.
func WithTrackerOnUpdate(fn func(TrackerState)) TrackerOption {
	return func(t *Tracker) {
		t.onUpdate = fn
	}
}

// Tracker drives FetchAndCompare for a UI that changes the compared version
// IDs over time. Only the most recent request can update the state.
type Tracker struct {
	fetcher  Fetcher
	onUpdate func(TrackerState)

	mu     sync.Mutex
	state  TrackerState
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker creates a Tracker that loads versions with f.
func NewTracker(f Fetcher, opts ...TrackerOption) *Tracker {
	t := &Tracker{fetcher: f}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Request starts comparing idA (old) with idB (new) in language. If either ID
// is empty the call does nothing and the last state is kept. Any in-flight
// request is cancelled and its result will not be applied.
func (t *Tracker) Request(ctx context.Context, idA, idB, language string) {
	if idA == "" || idB == "" {
		return
	}

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	rctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.state = TrackerState{
		VersionA: idA,
		VersionB: idB,
		Language: language,
		Loading:  true,
	}
	st := t.state
	t.wg.Add(1)
	t.mu.Unlock()

	t.notify(st)
	go t.resolve(rctx, gen, idA, idB, language)
}

func (t *Tracker) resolve(ctx context.Context, gen uint64, idA, idB, language string) {
	defer t.wg.Done()

	res, err := FetchAndCompare(ctx, t.fetcher, idA, idB, language)

	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		log.Printf("component=diff action=discard_stale version_a=%s version_b=%s lang=%s", idA, idB, language)
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.state.Loading = false
	if err != nil {
		t.state.Result = nil
		t.state.Err = err
		t.state.Message = errorMessage(err)
		log.Printf("component=diff action=compare_failed version_a=%s version_b=%s lang=%s err=%v", idA, idB, language, err)
	} else {
		t.state.Result = res
		t.state.Err = nil
		t.state.Message = ""
	}
	st := t.state
	t.mu.Unlock()

	t.notify(st)
}

// State returns the current state. The Result pointer is shared and must be
// treated as read-only.
func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wait blocks until every started request has finished or been discarded.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close cancels any in-flight request. Its result is discarded and the
// state stops loading; the last applied result is kept.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.gen++
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	changed := t.state.Loading
	t.state.Loading = false
	st := t.state
	t.mu.Unlock()

	if changed {
		t.notify(st)
	}
}

func (t *Tracker) notify(st TrackerState) {
	if t.onUpdate != nil {
		t.onUpdate(st)
	}
}

// errorMessage turns a comparison failure into text for the viewer.
func errorMessage(err error) string {
	var fe *FetchError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Comparison was cancelled before both versions loaded."
	case errors.As(err, &fe):
		return fmt.Sprintf("Could not load version %s: %v", fe.VersionID, fe.Err)
	default:
		return fmt.Sprintf("Comparison failed: %v", err)
	}
}
