package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired indicates the service rejected the bearer token;
	// the session store is already cleared when this error is returned
	ErrSessionExpired = errors.New("api.session_expired")

	// ErrNetwork indicates the request never produced a response
	ErrNetwork = errors.New("api.network")

	// ErrDecodeResponse indicates the response body could not be decoded
	ErrDecodeResponse = errors.New("api.decode_response")

	// ErrInvalidBaseURL indicates the configured base URL is unusable
	ErrInvalidBaseURL = errors.New("api.invalid_base_url")
)

// Error is a structured HTTP failure: the status the server answered with
// and the message it provided, when any. It covers both the credential
// rejection case on auth endpoints and resource errors elsewhere; the
// caller decides presentation.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api: %d %s", e.Status, msg)
}

// AsError unwraps err into *Error when the failure came from a server
// response.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
