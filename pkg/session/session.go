package session

import "time"

// RoleAdmin is the one canonical role string denoting administrator
// privilege. Role comparison is case-sensitive.
const RoleAdmin = "admin"

// User is the profile cached alongside the token. It mirrors the shape the
// library service returns and is persisted verbatim by the Store.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user carries the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session pairs the bearer token with the cached user profile. The two are
// written and cleared together; no persisted state has one without the
// other.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
