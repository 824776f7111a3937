package guard

import "github.com/bibliotek/bibliotek/pkg/session"

// Route surface consumed by redirect decisions.
const (
	// RouteAuth is the public authentication entry point.
	RouteAuth = "/auth"

	// RouteHome is the default landing route.
	RouteHome = "/"
)

// Session is the read-only view of session state the guards consult. Only
// the writers named in the session package may mutate the underlying state;
// guards never do.
type Session interface {
	Loading() bool
	Current() (session.User, bool)
	IsAdmin() bool
}

// Decision is the outcome of a guard check.
type Decision int

const (
	// ShowPlaceholder renders a neutral placeholder while the initial
	// store read is pending. No navigation is issued.
	ShowPlaceholder Decision = iota

	// RedirectAuth sends the visitor to RouteAuth, replacing history so
	// back-navigation cannot reach the guarded content.
	RedirectAuth

	// RedirectHome sends an authenticated non-admin to RouteHome.
	RedirectHome

	// Render lets the guarded content through.
	Render
)

// String returns a stable name for logging.
func (d Decision) String() string {
	switch d {
	case ShowPlaceholder:
		return "placeholder"
	case RedirectAuth:
		return "redirect:" + RouteAuth
	case RedirectHome:
		return "redirect:" + RouteHome
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Target returns the route a redirect decision points at, and whether the
// decision is a redirect at all.
func (d Decision) Target() (string, bool) {
	switch d {
	case RedirectAuth:
		return RouteAuth, true
	case RedirectHome:
		return RouteHome, true
	default:
		return "", false
	}
}

// Authenticated gates content on a present session.
func Authenticated(s Session) Decision {
	if s.Loading() {
		return ShowPlaceholder
	}
	if _, ok := s.Current(); !ok {
		return RedirectAuth
	}
	return Render
}

// Admin gates content on the administrator role. Loading short-circuits
// first, then authentication, then the role check.
func Admin(s Session) Decision {
	if s.Loading() {
		return ShowPlaceholder
	}
	if _, ok := s.Current(); !ok {
		return RedirectAuth
	}
	if !s.IsAdmin() {
		return RedirectHome
	}
	return Render
}

// Navigator receives the side effect of a redirect decision.
type Navigator interface {
	RedirectToAuth()
	RedirectToHome()
}

// Apply executes the decision's side effect on nav and reports whether the
// guarded content should render. ShowPlaceholder renders nothing and
// navigates nowhere.
func Apply(d Decision, nav Navigator) bool {
	switch d {
	case RedirectAuth:
		nav.RedirectToAuth()
	case RedirectHome:
		nav.RedirectToHome()
	case Render:
		return true
	}
	return false
}
