package session

import "sync"

// MemoryStore implements Store in memory. Sessions do not survive the
// process; it exists for tests and for callers that explicitly want an
// ephemeral session.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored session, or ErrNoSession when empty.
func (m *MemoryStore) Load() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.current.Token == "" {
		return nil, ErrNoSession
	}
	cp := *m.current
	return &cp, nil
}

// Save stores a copy of the session.
func (m *MemoryStore) Save(s *Session) error {
	if s == nil {
		return ErrNilSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.current = &cp
	return nil
}

// Clear drops the stored session. Idempotent.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	return nil
}
