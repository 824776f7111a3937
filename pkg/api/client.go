package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bibliotek/bibliotek/pkg/session"
)

// Client is the single shared HTTP client for the library service. All
// feature services hang off one Client instance so every request goes
// through the same authentication plumbing.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   session.Store
	nav     Navigator
	log     *slog.Logger

	Auth       *AuthService
	Books      *BooksService
	Borrowings *BorrowingsService
	Users      *UsersService
	Stats      *StatsService
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client. The default carries
// no timeout; failures surface only as network errors or non-2xx responses.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// WithNavigator sets the redirect target for session-expiry handling.
// Without one, expiry still clears the store but navigates nowhere.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates the client for the service rooted at cfg.BaseURL. store is
// consulted for the bearer token on every outgoing request and cleared by
// the 401 handler; it must be the same store the session manager projects.
func New(cfg Config, store session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/api",
		httpc:   &http.Client{},
		store:   store,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Books = &BooksService{client: c}
	c.Borrowings = &BorrowingsService{client: c}
	c.Users = &UsersService{client: c}
	c.Stats = &StatsService{client: c}
	return c, nil
}

// BaseURL returns the resolved API root, including the /api prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request and decodes the response into out (when non-nil).
// It is the only path to the wire: token attachment, 401 handling, envelope
// unwrapping and error shaping all live here.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// The store is the source of truth for the token; no token means the
	// request goes out unauthenticated and the server decides.
	authenticated := false
	if sess, err := c.store.Load(); err == nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		authenticated = true
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed", "method", method, "path", path, "error", err)
		return errors.Join(ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}

	c.log.DebugContext(ctx, "request completed",
		"method", method, "path", path, "status", resp.StatusCode, "authenticated", authenticated)

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		// The token was rejected: tear down local state, then the hard
		// redirect. A 401 without a token is a credential failure on an
		// auth endpoint and falls through to the generic error path.
		if err := c.store.Clear(); err != nil {
			c.log.WarnContext(ctx, "clearing session after 401", "error", err)
		}
		if c.nav != nil {
			c.nav.RedirectToAuth()
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	return decode(data, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// decode unmarshals a response body into out, accepting either a bare
// payload or an envelope of the form {"data": T} and preferring the
// envelope when present. An envelope carrying an explicit null leaves out
// at its zero value.
func decode(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 {
		if bytes.Equal(envelope.Data, []byte("null")) {
			return nil
		}
		data = envelope.Data
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

// serverMessage pulls the human-readable message out of an error body.
// The service answers with {"message": ...} but some proxies use
// {"error": ...}; anything else yields an empty message and the status
// text takes over.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
