package api

import (
	"context"
	"fmt"

	"github.com/bibliotek/bibliotek/pkg/session"
)

// UsersService wraps the /users resource.
type UsersService struct {
	client *Client
}

// Me fetches the signed-in user's profile from the service. This is the
// authoritative profile; the session store only caches it.
func (s *UsersService) Me(ctx context.Context) (*session.User, error) {
	var u session.User
	if err := s.client.get(ctx, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Get fetches a user by id.
func (s *UsersService) Get(ctx context.Context, id int64) (*session.User, error) {
	var u session.User
	if err := s.client.get(ctx, fmt.Sprintf("/users/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List fetches all users.
func (s *UsersService) List(ctx context.Context) ([]session.User, error) {
	var out []session.User
	if err := s.client.get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}
