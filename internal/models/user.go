package models

import "time"

// User represents a registered account. Email is the login identifier and is
// stored normalized (trimmed, lowercased).
type User struct {
	ID           string    `json:"id"`         // user UUID
	Email        string    `json:"email"`      // normalized email, unique
	PasswordHash string    `json:"-"`          // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at"` // account creation time
	UpdatedAt    time.Time `json:"updated_at"` // last modification time
}
