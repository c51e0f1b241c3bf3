package api

import (
	"time"

	"github.com/timetrac/timetrac/internal/models"
)

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login: the user plus a freshly
// issued bearer credential.
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// StatusResponse is a generic status acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries an error description.
type ErrorResponse struct {
	Error string `json:"error"`
}
