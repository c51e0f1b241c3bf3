// Package session persists the CLI's login state between invocations.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotLoggedIn indicates no stored session exists
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the cached login state: the bearer credential plus enough
// metadata to show status without a server round trip.
type Session struct {
	Email     string    `json:"email"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the cached credential is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store persists the session across CLI invocations.
type Store interface {
	// Save stores the session, replacing any previous one
	Save(ctx context.Context, s *Session) error

	// Get retrieves the stored session
	// Returns ErrNotLoggedIn if none exists
	Get(ctx context.Context) (*Session, error)

	// Delete removes the stored session (logout)
	Delete(ctx context.Context) error
}
