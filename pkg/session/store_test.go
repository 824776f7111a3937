package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotek/bibliotek/pkg/session"
)

func testSession() *session.Session {
	return &session.Session{
		Token: "tok-abc123",
		User: session.User{
			ID:        7,
			Username:  "alice",
			Email:     "alice@example.com",
			Role:      "member",
			CreatedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	want := testSession()
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_Load(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store, err := session.NewFileStore(filepath.Join(t.TempDir(), "none.json"))
		require.NoError(t, err)

		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store, err := session.NewFileStore(path)
		require.NoError(t, err)

		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrCorruptStore)
	})

	t.Run("read failure is not corruption", func(t *testing.T) {
		// A directory at the session path forces a read error that is
		// neither not-exist nor a decode failure.
		store, err := session.NewFileStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Load()
		require.Error(t, err)
		assert.NotErrorIs(t, err, session.ErrCorruptStore)
		assert.NotErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("persisted session without token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"token":"","user":{"id":1}}`), 0o600))

		store, err := session.NewFileStore(path)
		require.NoError(t, err)

		_, err = store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestFileStore_Clear(t *testing.T) {
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	require.NoError(t, store.Save(testSession()))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	// Clearing an already-empty store is a no-op, not an error.
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFileStore_SaveValidation(t *testing.T) {
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	assert.ErrorIs(t, store.Save(nil), session.ErrNilSession)

	_, err = session.NewFileStore("")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := session.NewMemoryStore()
		want := testSession()
		require.NoError(t, store.Save(want))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty store", func(t *testing.T) {
		store := session.NewMemoryStore()
		_, err := store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(testSession()))
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, err := store.Load()
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("load returns a copy", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(testSession()))

		first, err := store.Load()
		require.NoError(t, err)
		first.User.Username = "mallory"

		second, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "alice", second.User.Username)
	})
}
