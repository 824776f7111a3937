package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotek/bibliotek/pkg/api"
	"github.com/bibliotek/bibliotek/pkg/session"
)

type recordedRequest struct {
	method  string
	path    string
	auth    string
	hasAuth bool
}

// newClient wires a client against a canned handler and returns the store
// and a pointer to the last request seen by the server.
func newClient(t *testing.T, handler http.HandlerFunc, opts ...api.Option) (*api.Client, *session.MemoryStore, *recordedRequest) {
	t.Helper()

	last := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.method = r.Method
		last.path = r.URL.Path
		last.auth = r.Header.Get("Authorization")
		_, last.hasAuth = r.Header["Authorization"]
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	client, err := api.New(api.Config{BaseURL: srv.URL}, store, opts...)
	require.NoError(t, err)
	return client, store, last
}

func signIn(t *testing.T, store session.Store, token string) {
	t.Helper()
	require.NoError(t, store.Save(&session.Session{
		Token: token,
		User:  session.User{ID: 1, Username: "alice", Role: "member"},
	}))
}

func TestNew(t *testing.T) {
	t.Run("base url resolution", func(t *testing.T) {
		client, err := api.New(api.Config{BaseURL: "http://localhost:3000"}, session.NewMemoryStore())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000/api", client.BaseURL())
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		client, err := api.New(api.Config{BaseURL: "http://localhost:3000/"}, session.NewMemoryStore())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000/api", client.BaseURL())
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := api.New(api.Config{BaseURL: "not a url"}, session.NewMemoryStore())
		assert.ErrorIs(t, err, api.ErrInvalidBaseURL)
	})
}

func TestClient_BearerAttachment(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}

	t.Run("token present attaches exact bearer header", func(t *testing.T) {
		client, store, last := newClient(t, ok)
		signIn(t, store, "tok-xyz")

		_, err := client.Books.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-xyz", last.auth)
	})

	t.Run("no token sends no authorization header", func(t *testing.T) {
		client, _, last := newClient(t, ok)

		_, err := client.Books.List(context.Background())
		require.NoError(t, err)
		assert.False(t, last.hasAuth)
	})
}

func TestClient_SessionExpiry(t *testing.T) {
	reject := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}

	t.Run("401 on authenticated call clears store and redirects", func(t *testing.T) {
		redirects := 0
		client, store, _ := newClient(t, reject, api.WithNavigator(api.NavigatorFunc(func() {
			redirects++
		})))
		signIn(t, store, "tok-stale")

		_, err := client.Books.List(context.Background())
		assert.ErrorIs(t, err, api.ErrSessionExpired)

		_, loadErr := store.Load()
		assert.ErrorIs(t, loadErr, session.ErrNoSession)
		assert.Equal(t, 1, redirects)
	})

	t.Run("expiry handling is uniform across resource paths", func(t *testing.T) {
		for _, call := range []struct {
			name string
			do   func(c *api.Client) error
		}{
			{"books get", func(c *api.Client) error { _, err := c.Books.Get(context.Background(), 1); return err }},
			{"borrow", func(c *api.Client) error { _, err := c.Borrowings.Borrow(context.Background(), 1); return err }},
			{"users me", func(c *api.Client) error { _, err := c.Users.Me(context.Background()); return err }},
			{"stats", func(c *api.Client) error { _, err := c.Stats.TopBooks(context.Background()); return err }},
			{"delete book", func(c *api.Client) error { return c.Books.Delete(context.Background(), 1) }},
		} {
			t.Run(call.name, func(t *testing.T) {
				client, store, _ := newClient(t, reject)
				signIn(t, store, "tok-stale")

				assert.ErrorIs(t, call.do(client), api.ErrSessionExpired)
				_, loadErr := store.Load()
				assert.ErrorIs(t, loadErr, session.ErrNoSession)
			})
		}
	})

	t.Run("401 without token is a credential error, not expiry", func(t *testing.T) {
		redirects := 0
		client, store, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"invalid credentials"}`))
		}, api.WithNavigator(api.NavigatorFunc(func() { redirects++ })))

		_, err := client.Auth.Login(context.Background(), "alice", "wrongpw")
		require.Error(t, err)
		assert.NotErrorIs(t, err, api.ErrSessionExpired)

		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "invalid credentials", apiErr.Message)

		// Form error: no redirect, and the (empty) store stays empty.
		assert.Zero(t, redirects)
		_, loadErr := store.Load()
		assert.ErrorIs(t, loadErr, session.ErrNoSession)
	})
}

func TestClient_EnvelopeUnwrapping(t *testing.T) {
	t.Run("wrapped payload", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[{"id":1,"title":"Dune","author":"Herbert","isbn":"9780441013593","stock":2}]}`))
		})

		books, err := client.Books.List(context.Background())
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("bare payload", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":1,"title":"Dune","author":"Herbert","isbn":"9780441013593","stock":2}]`))
		})

		books, err := client.Books.List(context.Background())
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("null data yields an empty result", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":null}`))
		})

		books, err := client.Books.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{{{`))
		})

		_, err := client.Books.List(context.Background())
		assert.ErrorIs(t, err, api.ErrDecodeResponse)
	})
}

func TestClient_ErrorShaping(t *testing.T) {
	t.Run("server message preferred", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"book out of stock"}`))
		})

		_, err := client.Borrowings.Borrow(context.Background(), 9)
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "book out of stock", apiErr.Message)
	})

	t.Run("error key fallback", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such book"}`))
		})

		_, err := client.Books.Get(context.Background(), 404)
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "no such book", apiErr.Message)
	})

	t.Run("status text fallback for empty body", func(t *testing.T) {
		client, _, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.Books.List(context.Background())
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "api: 500 Internal Server Error", apiErr.Error())
	})

	t.Run("network failure", func(t *testing.T) {
		client, err := api.New(api.Config{BaseURL: "http://127.0.0.1:1"}, session.NewMemoryStore())
		require.NoError(t, err)

		_, err = client.Books.List(context.Background())
		assert.ErrorIs(t, err, api.ErrNetwork)
	})
}

func TestClient_RequestShape(t *testing.T) {
	client, store, last := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	})
	signIn(t, store, "tok")

	_, err := client.Borrowings.Return(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/api/borrowings/42/return", last.path)
}
