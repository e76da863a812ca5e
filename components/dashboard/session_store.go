package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// InMemorySessionStore keeps sessions in a map for the life of the process.
type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]*Session
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		data: make(map[string]*Session),
	}
}

// Create stores session, assigning a uuid when it has no id.
func (s *InMemorySessionStore) Create(_ context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("dashboard: session is required")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[session.ID]; exists {
		return fmt.Errorf("dashboard: session %s already exists", session.ID)
	}
	s.data[session.ID] = session
	return nil
}

// Get returns the session with id.
func (s *InMemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return session, nil
}

// Delete drops the session with id. Unknown ids are ignored.
func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Len returns the number of live sessions.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
