package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the per-section lifecycle of a conversation.
type State string

// Session states. idle -> drafting on the first update_draft, drafting ->
// ready when an add_* action arrives, ready -> applied on explicit user
// confirmation. Switching sections resets to idle and discards everything.
const (
	StateIdle     State = "idle"
	StateDrafting State = "drafting"
	StateReady    State = "ready"
	StateApplied  State = "applied"
)

// Session holds one conversation's draft state. Nothing survives a section
// switch or expiry; there is no cross-conversation coordination.
type Session struct {
	mu            sync.Mutex
	ID            string
	ActiveSection string
	State         State
	Draft         Draft
	Messages      []PendingAction
	lastAccess    time.Time
}

// Lock serializes access to the session's mutable state.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// PendingAction is an assistant turn whose action may still be applied.
// Applied transitions false -> true exactly once and never reverts.
type PendingAction struct {
	MessageID string
	Type      string
	Data      []byte
	Applied   bool
	Entity    []byte // set when applied, returned on re-apply
}

// SwitchSection discards the draft and pending actions when the editor
// moves to a different section.
func (s *Session) SwitchSection(section string) {
	if s.ActiveSection == section {
		return
	}
	s.ActiveSection = section
	s.State = StateIdle
	s.Draft = Draft{}
	s.Messages = nil
}

// Store keeps sessions in memory with a TTL. Drafts are conversation-scoped
// scratch space, so losing them on restart matches the original's
// tab-scoped behavior.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store and starts its cleanup loop.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// GetOrCreate returns the session for a conversation id, creating it (and
// the id itself, when empty) as needed.
func (s *Store) GetOrCreate(conversationID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	sess, ok := s.sessions[conversationID]
	if !ok {
		sess = &Session{ID: conversationID, State: StateIdle}
		s.sessions[conversationID] = sess
	}
	sess.lastAccess = time.Now()
	return sess
}

// Get returns an existing session or nil.
func (s *Store) Get(conversationID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[conversationID]
	if !ok {
		return nil
	}
	sess.lastAccess = time.Now()
	return sess
}

// Stop terminates the cleanup goroutine.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
