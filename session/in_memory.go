package session

import (
	"sync"

	"github.com/hupe1980/interviewmesh/core"
)

// Store persists session contexts by ID.
type Store interface {
	// Create allocates a fresh context, replacing any existing one.
	Create(sessionID, userID string) (*core.SessionContext, error)
	// Get returns the context for sessionID or core.ErrSessionNotFound.
	Get(sessionID string) (*core.SessionContext, error)
	// Save stores a snapshot of the provided context.
	Save(sc *core.SessionContext) error
	// Delete removes the context; deleting an absent session is a no-op.
	Delete(sessionID string) error
}

// InMemoryStore is a volatile Store implementation keeping contexts in a
// process local map. It is safe for concurrent access. Contexts are stored
// and returned by reference: the orchestrator serializes all access to one
// session, so no clone-on-read is needed on this path.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.SessionContext
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.SessionContext)}
}

// Create implements Store.
func (s *InMemoryStore) Create(sessionID, userID string) (*core.SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := core.NewSessionContext(sessionID, userID)
	s.sessions[sessionID] = sc
	return sc, nil
}

// Get implements Store.
func (s *InMemoryStore) Get(sessionID string) (*core.SessionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sc, nil
}

// Save implements Store.
func (s *InMemoryStore) Save(sc *core.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sc.ID] = sc
	return nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
