// ABOUTME: Manager tracks past/present/future snapshots of a block list with debounced capture.
// ABOUTME: Bounded undo depth, redo cleared on new commits, and copies in and out of every call.

package history

import (
	"sync"
	"time"

	"github.com/2389-research/quire/content"
)

const (
	// DefaultMaxHistory is the number of past entries kept when none is configured.
	DefaultMaxHistory = 50

	// DefaultDebounce is the quiet period before a pushed state is committed.
	DefaultDebounce = 500 * time.Millisecond
)

// Entry is one committed snapshot. Entries are never modified once stored.
type Entry struct {
	Blocks      []content.Block
	Timestamp   time.Time
	Description string
}

func (e Entry) clone() Entry {
	e.Blocks = content.CloneBlocks(e.Blocks)
	return e
}

// Status is the derived undo/redo availability shown by an editor toolbar.
type Status struct {
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
	UndoCount int  `json:"undo_count"`
	RedoCount int  `json:"redo_count"`
}

// Manager holds the editing history for one document. The zero value is not
// usable; construct with New. Safe for concurrent use.
//
// Unavailable operations (undo with no past, redo with no future, reading
// state before Initialize) report ok == false and leave the state unchanged.
type Manager struct {
	mu sync.Mutex

	past    []Entry // oldest first
	present *Entry  // nil until the first Initialize or commit
	future  []Entry // next redo first

	// Debounce state. pendingSeq is bumped on every schedule and cancel so a
	// timer that already fired but lost the race for mu becomes a no-op.
	pending    *Entry
	pendingSeq uint64
	timer      stopper

	maxHistory int
	debounce   time.Duration
	now        func() time.Time
	sched      scheduler
	onChange   func(Status)
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxHistory bounds the number of undo steps. Non-positive values keep the default.
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

// WithDebounce sets the quiet period for PushState. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithOnChange registers a callback invoked after every state transition,
// including commits made by the debounce timer. It runs without the
// manager's lock held and may call back into the manager.
func WithOnChange(fn func(Status)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithClock overrides the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func withScheduler(s scheduler) Option {
	return func(m *Manager) {
		m.sched = s
	}
}

// New creates an uninitialized Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		maxHistory: DefaultMaxHistory,
		debounce:   DefaultDebounce,
		now:        time.Now,
		sched:      realScheduler{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize discards all history and makes a copy of blocks the present
// state. Any pending push is dropped. Used when switching documents.
func (m *Manager) Initialize(blocks []content.Block) {
	m.mu.Lock()
	m.cancelPendingLocked()
	m.past = nil
	m.future = nil
	m.present = &Entry{
		Blocks:    content.CloneBlocks(blocks),
		Timestamp: m.now(),
	}
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
}

// PushState schedules a copy of blocks to be committed once the debounce
// period passes without another push. Returns immediately; a later push in
// the same window replaces this one.
func (m *Manager) PushState(blocks []content.Block, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTimerLocked()
	m.pending = &Entry{
		Blocks:      content.CloneBlocks(blocks),
		Description: description,
	}
	m.pendingSeq++
	seq := m.pendingSeq
	m.timer = m.sched.AfterFunc(m.debounce, func() {
		m.fire(seq)
	})
}

// Flush commits a pending push immediately instead of waiting for the
// debounce timer. Returns false if nothing was pending.
func (m *Manager) Flush() bool {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return false
	}
	m.stopTimerLocked()
	m.commitPendingLocked()
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
	return true
}

// Pending reports whether a pushed state is waiting for its debounce period.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Undo restores the previous committed state and returns a copy of its
// blocks. An uncommitted push is discarded, not committed.
func (m *Manager) Undo() ([]content.Block, bool) {
	m.mu.Lock()
	if len(m.past) == 0 {
		m.mu.Unlock()
		return nil, false
	}
	m.cancelPendingLocked()

	last := len(m.past) - 1
	prev := m.past[last]
	m.past = m.past[:last]
	m.future = append([]Entry{*m.present}, m.future...)
	m.present = &prev

	out := content.CloneBlocks(prev.Blocks)
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
	return out, true
}

// Redo re-applies the next undone state and returns a copy of its blocks.
func (m *Manager) Redo() ([]content.Block, bool) {
	m.mu.Lock()
	if len(m.future) == 0 {
		m.mu.Unlock()
		return nil, false
	}
	m.cancelPendingLocked()

	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, *m.present)
	m.trimLocked()
	m.present = &next

	out := content.CloneBlocks(next.Blocks)
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
	return out, true
}

// ClearHistory empties the undo and redo stacks and drops any pending push.
// The present state is kept.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	m.cancelPendingLocked()
	m.past = nil
	m.future = nil
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
}

// CurrentState returns a copy of the present blocks, or false before initialization.
func (m *Manager) CurrentState() ([]content.Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.present == nil {
		return nil, false
	}
	return content.CloneBlocks(m.present.Blocks), true
}

// Present returns a copy of the present entry including its timestamp and description.
func (m *Manager) Present() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.present == nil {
		return Entry{}, false
	}
	return m.present.clone(), true
}

// CanUndo reports whether Undo would change state.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0
}

// CanRedo reports whether Redo would change state.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// UndoCount returns the number of available undo steps.
func (m *Manager) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past)
}

// RedoCount returns the number of available redo steps.
func (m *Manager) RedoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future)
}

// Status returns all derived availability values at once.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Close cancels any pending debounce timer. The pending push is dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}

// fire is the debounce timer callback.
func (m *Manager) fire(seq uint64) {
	m.mu.Lock()
	if m.pending == nil || seq != m.pendingSeq {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.commitPendingLocked()
	st := m.statusLocked()
	m.mu.Unlock()

	m.notify(st)
}

// commitPendingLocked moves the pending snapshot into present. The first
// commit on an uninitialized manager creates no past entry.
func (m *Manager) commitPendingLocked() {
	entry := *m.pending
	entry.Timestamp = m.now()
	m.pending = nil
	m.pendingSeq++

	if m.present == nil {
		m.present = &entry
		return
	}

	m.past = append(m.past, *m.present)
	m.trimLocked()
	m.future = nil
	m.present = &entry
}

// trimLocked drops the oldest past entries beyond maxHistory.
func (m *Manager) trimLocked() {
	if len(m.past) > m.maxHistory {
		excess := len(m.past) - m.maxHistory
		m.past = append([]Entry(nil), m.past[excess:]...)
	}
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) cancelPendingLocked() {
	m.stopTimerLocked()
	m.pending = nil
	m.pendingSeq++
}

func (m *Manager) statusLocked() Status {
	return Status{
		CanUndo:   len(m.past) > 0,
		CanRedo:   len(m.future) > 0,
		UndoCount: len(m.past),
		RedoCount: len(m.future),
	}
}

func (m *Manager) notify(st Status) {
	if m.onChange != nil {
		m.onChange(st)
	}
}
