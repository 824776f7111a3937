package api

// Navigator performs the hard redirect the client issues when the service
// rejects the session. The web original navigated the whole page away,
// discarding all in-memory state; modeling that as an explicit action keeps
// it observable for callers and testable without a page to unload.
type Navigator interface {
	RedirectToAuth()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

// RedirectToAuth calls f.
func (f NavigatorFunc) RedirectToAuth() { f() }
