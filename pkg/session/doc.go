// Package session persists and projects the client's authentication state:
// the bearer token issued by the library service and the user profile cached
// next to it.
//
// The package is storage-agnostic: anything satisfying the Store interface
// can hold the session. A file-backed implementation ships for real use
// (surviving process restarts the way browser storage survives page reloads)
// together with an in-memory implementation for tests.
//
// # Architecture
//
// A Store is the single source of truth for the token across process
// restarts. A Manager is a short-lived in-memory projection of it: built
// once per process from a single Store read, it exposes the current user,
// the derived administrator flag and the sign-out action to the rest of the
// application. The Manager never re-reads the Store; a fresh process gets a
// fresh projection.
//
// Writers are deliberately few. Only the auth service (on successful login
// or registration), the API client's authentication-failure handler and the
// sign-out action mutate the Store; everything else reads.
//
// # Usage
//
//	store, _ := session.NewFileStore(path)
//	manager := session.NewManager(store, nav)
//
//	if user, ok := manager.Current(); ok {
//	    fmt.Println("signed in as", user.Username)
//	}
//
//	// Tear down local state and send the user to the auth entry point.
//	_ = manager.SignOut()
//
// # Error Handling
//
// Common error values returned by the package:
//
//   - ErrNoSession    – the store holds no persisted session
//   - ErrCorruptStore – the persisted session could not be decoded
//   - ErrNilSession   – Save was called with a nil session
package session
