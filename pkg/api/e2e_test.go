package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotek/bibliotek/internal/apitest"
	"github.com/bibliotek/bibliotek/pkg/api"
	"github.com/bibliotek/bibliotek/pkg/session"
)

func newFixtureClient(t *testing.T) (*apitest.Server, *api.Client, *session.MemoryStore) {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	client, err := api.New(api.Config{BaseURL: srv.URL()}, store)
	require.NoError(t, err)
	return srv, client, store
}

func TestEndToEnd_MemberFlow(t *testing.T) {
	srv, client, store := newFixtureClient(t)
	ctx := context.Background()

	srv.SeedUser("alice", "correctpw", "member")
	dune := srv.SeedBook("Dune", "Frank Herbert", "9780441013593", 2)
	srv.SeedBook("Neuromancer", "William Gibson", "9780441569595", 1)

	// Login persists the session before returning.
	resp, err := client.Auth.Login(ctx, "alice", "correctpw")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, resp.Token, sess.Token)
	assert.Equal(t, "alice", sess.User.Username)

	// Catalog: full set on empty query, empty set on unmatched query.
	books, err := client.Books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Len(t, api.FilterBooks(books, ""), 2)
	assert.Empty(t, api.FilterBooks(books, "no-title-author-or-isbn-matches-this"))
	assert.Len(t, api.FilterBooks(books, "herbert"), 1)

	// Borrow decrements stock server-side; the client only mirrors it.
	loan, err := client.Borrowings.Borrow(ctx, dune.ID)
	require.NoError(t, err)
	assert.True(t, loan.Active())

	after, err := client.Books.Get(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Stock)

	// The loan shows up as active, with the book joined in.
	mine, err := client.Borrowings.Mine(ctx)
	require.NoError(t, err)
	active, returned := api.SplitBorrowings(mine)
	require.Len(t, active, 1)
	assert.Empty(t, returned)
	require.NotNil(t, active[0].Book)
	assert.Equal(t, "Dune", active[0].Book.Title)

	// Return is terminal and one-way.
	closed, err := client.Borrowings.Return(ctx, dune.ID)
	require.NoError(t, err)
	assert.False(t, closed.Active())

	_, err = client.Borrowings.Return(ctx, dune.ID)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	mine, err = client.Borrowings.Mine(ctx)
	require.NoError(t, err)
	active, returned = api.SplitBorrowings(mine)
	assert.Empty(t, active)
	assert.Len(t, returned, 1)

	// Profile endpoint agrees with the cached session.
	me, err := client.Users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, me.ID)
}

func TestEndToEnd_OutOfStock(t *testing.T) {
	srv, client, _ := newFixtureClient(t)
	ctx := context.Background()

	srv.SeedUser("alice", "correctpw", "member")
	gone := srv.SeedBook("Rare Folio", "Anonymous", "0000000000", 0)

	_, err := client.Auth.Login(ctx, "alice", "correctpw")
	require.NoError(t, err)

	_, err = client.Borrowings.Borrow(ctx, gone.ID)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "book out of stock", apiErr.Message)
}

func TestEndToEnd_AdminFlow(t *testing.T) {
	srv, client, _ := newFixtureClient(t)
	ctx := context.Background()

	srv.SeedUser("root", "correctpw", session.RoleAdmin)
	srv.SeedUser("alice", "correctpw", "member")

	_, err := client.Auth.Login(ctx, "root", "correctpw")
	require.NoError(t, err)

	// Book CRUD.
	created, err := client.Books.Create(ctx, api.BookInput{
		Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Stock: 3,
	})
	require.NoError(t, err)

	updated, err := client.Books.Update(ctx, created.ID, api.BookInput{
		Title: "Dune (Reissue)", Author: "Frank Herbert", ISBN: "9780441013593", Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune (Reissue)", updated.Title)
	assert.Equal(t, 5, updated.Stock)

	// Borrow once so the aggregates have a row.
	_, err = client.Borrowings.Borrow(ctx, created.ID)
	require.NoError(t, err)

	topBooks, err := client.Stats.TopBooks(ctx)
	require.NoError(t, err)
	require.Len(t, topBooks, 1)
	assert.Equal(t, "Dune (Reissue)", topBooks[0].Title)
	assert.Equal(t, 1, topBooks[0].Count)
	assert.Equal(t, 1, api.TotalBorrows(topBooks))

	topUsers, err := client.Stats.TopUsers(ctx)
	require.NoError(t, err)
	require.Len(t, topUsers, 1)
	assert.Equal(t, "root", topUsers[0].Username)

	users, err := client.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, client.Books.Delete(ctx, created.ID))
	_, err = client.Books.Get(ctx, created.ID)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestEndToEnd_RoleEnforcement(t *testing.T) {
	srv, client, _ := newFixtureClient(t)
	ctx := context.Background()

	srv.SeedUser("alice", "correctpw", "member")

	_, err := client.Auth.Login(ctx, "alice", "correctpw")
	require.NoError(t, err)

	_, err = client.Books.Create(ctx, api.BookInput{Title: "Sneaky", Author: "Alice"})
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestEndToEnd_RevokedToken(t *testing.T) {
	srv, client, store := newFixtureClient(t)
	ctx := context.Background()

	srv.SeedUser("alice", "correctpw", "member")
	resp, err := client.Auth.Login(ctx, "alice", "correctpw")
	require.NoError(t, err)

	redirects := 0
	// Rewire with a navigator to observe the forced redirect.
	client, err = api.New(api.Config{BaseURL: srv.URL()}, store,
		api.WithNavigator(api.NavigatorFunc(func() { redirects++ })))
	require.NoError(t, err)

	srv.RevokeToken(resp.Token)

	_, err = client.Books.List(ctx)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Equal(t, 1, redirects)

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}
