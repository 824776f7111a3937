// Package guard decides whether protected content may render for the
// current session state.
//
// Guards are pure functions from a read-only session view to a Decision;
// executing the decision's side effect (a redirect) is separated into Apply
// so tests can assert on the decision itself. Two gate variants exist:
// Authenticated, which requires any signed-in user, and Admin, which also
// requires the administrator role.
//
// Both guards share one state machine. While the initial store read is
// pending the guard shows a neutral placeholder and issues no navigation,
// avoiding a redirect flash before the session is known. An unauthenticated
// visitor is redirected to the auth entry point, replacing history. An
// authenticated non-admin hitting an admin gate is sent to the default
// landing route instead. Checks run in that order: loading, then
// authentication, then role.
package guard
