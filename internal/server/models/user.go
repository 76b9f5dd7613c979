package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	UserName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may use the administrative endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
