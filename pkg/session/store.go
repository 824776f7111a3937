package session

// Store defines the interface for session persistence.
type Store interface {
	// Load returns the persisted session, or ErrNoSession when nothing
	// is persisted.
	Load() (*Session, error)

	// Save persists the session, replacing any previous one.
	Save(s *Session) error

	// Clear removes the token and the cached user as one operation.
	// Clearing an already-empty store is not an error.
	Clear() error
}
