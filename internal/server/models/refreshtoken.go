package models

import "time"

// RefreshToken is the stored record behind a single-use refresh token.
// The ID doubles as the opaque token handle embedded in the signed refresh
// JWT; it is generated server-side and never guessable. A record is mutated
// exactly once, when it is marked revoked on rotation or logout.
type RefreshToken struct {
	ID        string
	AuthorID  int64
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
