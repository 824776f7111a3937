// Package api is the HTTP client for the library service: one shared
// Client carrying the authentication plumbing, plus thin per-resource
// services (auth, books, borrowings, users, stats) layered on top of it.
//
// # Architecture
//
// Every request funnels through the same path. Before transmission the
// client reads the current token from the session store and, when present,
// attaches it as a bearer credential; a missing token sends the request
// unauthenticated and lets the server decide. Every response is inspected
// on the way back: an authentication failure on a request that carried a
// token means the session is no longer valid, so the client clears the
// store, fires the Navigator's auth redirect, and returns
// ErrSessionExpired, exactly once per failing response, for every resource
// path.
//
// A 401 on a request that carried no token (a login or registration with
// bad credentials) is a form error, not an expired session: it propagates
// as *Error with the server's message and touches neither the store nor the
// navigator.
//
// The service may wrap payloads as {"data": T} or return T directly; the
// client normalizes both shapes at its boundary so every service sees one
// canonical form.
//
// # Usage
//
//	var cfg api.Config
//	config.MustLoad(&cfg)
//
//	client, err := api.New(cfg, store, api.WithNavigator(nav))
//	if err != nil { ... }
//
//	resp, err := client.Auth.Login(ctx, "alice", "secret")
//	books, err := client.Books.List(ctx)
//
// # Error Handling
//
// Failures fall into four kinds:
//
//   - ErrSessionExpired – 401 on an authenticated call; local state is
//     already torn down when the caller sees it
//   - *Error            – the server answered with a non-2xx status; carries
//     the status code and the server-provided message
//   - ErrNetwork        – the request never produced a response
//   - ErrDecodeResponse – the response body could not be decoded
//
// Nothing is retried automatically, and no failure is fatal to the
// process.
package api
