// internal/store/store.go
//
// Shared types for the persistence layer.
// The game store interfaces (SessionStore, GuessStore, WordSource) are
// declared in internal/game next to their consumer; this package holds
// their SQLite and in-memory implementations plus the user store.

package store

import (
	"context"
	"time"
)

// User is an account row. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists user accounts. Lookups return (nil, nil) when no
// user matches; errors are reserved for storage failures.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
}
