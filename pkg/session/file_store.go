package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the session as a single JSON document on disk, the
// counterpart of the web client's two browser-storage slots ("token" and
// "user"). Keeping both slots in one document means Clear can never leave
// the token without the profile or vice versa.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The parent directory is
// created if it does not exist; the file itself is created on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session: store path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("session: resolving store path: %w", err)
	}
	// 0700: the file holds a bearer credential in plain text
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("session: creating store directory: %w", err)
	}
	return &FileStore{path: abs}, nil
}

// Path returns the absolute location of the session file.
func (f *FileStore) Path() string { return f.path }

// Load reads the persisted session. A missing file or a persisted session
// without a token both report ErrNoSession.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: reading session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrCorruptStore, err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session atomically: the document is written to a
// temporary file in the same directory and renamed over the destination, so
// a crash mid-write never leaves a half-written session behind.
func (f *FileStore) Save(s *Session) error {
	if s == nil {
		return ErrNilSession
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: restricting temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("session: replacing session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing twice is the same as clearing
// once.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing session file: %w", err)
	}
	return nil
}
