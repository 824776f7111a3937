package session

import "sync"

// Navigator performs the hard redirect issued on sign-out. It is modeled as
// an explicit side effect rather than in-process routing so callers and
// tests can observe the navigation.
type Navigator interface {
	RedirectToAuth()
}

// Manager is the process-wide projection of the persisted session: the
// current user, the loading flag and the sign-out action. It is built from
// exactly one Store read and never re-reads the store; each process start
// rebuilds the projection from scratch.
//
// The Manager itself only writes the store on SignOut. Successful
// authentication reaches it through SetUser, pushed by the auth flow.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	nav     Navigator
	user    *User
	loading bool
}

// NewManager builds the projection with a single synchronous read from
// store. Loading reports false from the moment NewManager returns, whether
// or not a session was found. nav may be nil when no redirect target exists
// (e.g. one-shot tooling).
func NewManager(store Store, nav Navigator) *Manager {
	m := &Manager{store: store, nav: nav, loading: true}

	if s, err := store.Load(); err == nil {
		u := s.User
		m.user = &u
	}
	m.loading = false
	return m
}

// Loading reports whether the initial store read is still pending. No
// transition leads back to loading within a process lifetime.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Current returns the signed-in user, if any.
func (m *Manager) Current() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return User{}, false
	}
	return *m.user, true
}

// IsAdmin reports whether the current user carries the administrator role.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.IsAdmin()
}

// SetUser pushes a freshly authenticated user into the projection without a
// store re-read. Passing nil drops the in-memory user only; the store is
// untouched either way.
func (m *Manager) SetUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u == nil {
		m.user = nil
		return
	}
	cp := *u
	m.user = &cp
}

// SignOut clears the store, drops the in-memory user and redirects to the
// auth entry point. It is an unconditional, full teardown: any state cached
// off the session is to be considered discarded. Signing out twice has the
// same observable result as signing out once.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	err := m.store.Clear()
	m.user = nil
	m.mu.Unlock()

	if m.nav != nil {
		m.nav.RedirectToAuth()
	}
	return err
}
