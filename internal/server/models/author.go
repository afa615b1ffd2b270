// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the access level assigned to an author account.
type Role string

const (
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// Author is an account that can authenticate against the service.
type Author struct {
	ID    int64
	Name  string
	Email string
	// PasswordHash is empty when no password is set; such accounts cannot
	// log in with a password.
	PasswordHash string
	IsActive     bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
