package models

import "time"

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"` // staff or admin
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the authenticated identity for one logged-in client. It exists
// only between login and logout; there is no durable account state behind it.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
