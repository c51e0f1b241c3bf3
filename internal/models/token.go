package models

import "time"

// AuthToken is the registry record of one issued credential, keyed by its JTI.
// The row is created at issuance, marked revoked at logout and never physically
// deleted until its expiry has passed (audit / replay-detection window).
type AuthToken struct {
	JTI       string     `json:"jti"`        // unique token identifier
	UserID    string     `json:"user_id"`    // owning user
	ExpiresAt time.Time  `json:"expires_at"` // credential expiry
	RevokedAt *time.Time `json:"revoked_at"` // nil while the token is active
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Revoked reports whether the token has been invalidated.
func (t *AuthToken) Revoked() bool {
	return t.RevokedAt != nil
}
