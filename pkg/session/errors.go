package session

import "errors"

var (
	// ErrNoSession indicates the store holds no persisted session
	ErrNoSession = errors.New("session.not_found")

	// ErrCorruptStore indicates the persisted session could not be decoded
	ErrCorruptStore = errors.New("session.corrupt_store")

	// ErrNilSession indicates Save was called with a nil session
	ErrNilSession = errors.New("session.nil_session")
)
