package api

import (
	"context"

	"github.com/bibliotek/bibliotek/pkg/session"
)

// AuthService performs login, registration and sign-out against the
// service. Successful authentication persists the token and the user
// profile to the session store before returning, so a Load immediately
// after Login observes the new session.
type AuthService struct {
	client *Client
}

// AuthResponse is the service's answer to a successful login or
// registration.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    session.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. Rejected credentials surface
// as *Error with the server's message; the form stays editable and no
// redirect is issued.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.client.post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := s.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and signs it in, with the same persistence
// contract as Login. The six-character password minimum is a form-level
// rule; the service is the authority and this method does not duplicate
// the check.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := registerRequest{Username: username, Email: email, Password: password}
	if err := s.client.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if err := s.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout clears the session store. It is pure local teardown: the service
// holds no session state to invalidate, so no request is made. Logging out
// twice has the same observable result as once.
func (s *AuthService) Logout() error {
	return s.client.store.Clear()
}

func (s *AuthService) persist(resp *AuthResponse) error {
	if resp.Token == "" {
		return nil
	}
	return s.client.store.Save(&session.Session{Token: resp.Token, User: resp.User})
}
