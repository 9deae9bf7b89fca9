// ABOUTME: In-memory editor session store with TTL cleanup and capacity limits.
// ABOUTME: Thread-safe; each session owns a history manager built from the store's options.

package editor

import (
	"log"
	"sync"
	"time"

	"github.com/2389-research/quire/content"
	"github.com/2389-research/quire/history"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	ttl         time.Duration
	historyOpts []history.Option
}

// StoreOption configures optional Store behavior.
type StoreOption func(*Store)

// WithHistoryOptions sets the options used for every session's history manager.
func WithHistoryOptions(opts ...history.Option) StoreOption {
	return func(s *Store) {
		s.historyOpts = append(s.historyOpts, opts...)
	}
}

// NewStore creates a new session store
func NewStore(maxSessions int, ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		ttl:         ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a session on documentID with blocks as the initial state.
func (s *Store) Create(documentID, language string, blocks []content.Block) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Language:   language,
		CreatedAt:  now,
		LastAccess: now,
		history:    history.New(s.historyOpts...),
	}
	sess.history.Initialize(blocks)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		// Evict least recently used session
		var oldestID string
		var oldestTime time.Time
		for id, existing := range s.sessions {
			if last := existing.lastAccess(); oldestTime.IsZero() || last.Before(oldestTime) {
				oldestID = id
				oldestTime = last
			}
		}
		if evicted, ok := s.sessions[oldestID]; ok {
			evicted.close()
			delete(s.sessions, oldestID)
			log.Printf("component=editor action=evict_session session_id=%s document_id=%s", oldestID, evicted.Document())
		}
	}

	s.sessions[sess.ID] = sess
	return sess
}

// Get retrieves a session by ID and updates its LastAccess time
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	sess.touch(time.Now())
	return sess, true
}

// Delete closes and removes a session. Returns false if it did not exist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.close()
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastAccess().Before(cutoff) {
			sess.close()
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("component=editor action=cleanup removed=%d remaining=%d", removed, len(s.sessions))
	}
}

// StartCleanup starts a background cleanup goroutine and returns a stop function
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
