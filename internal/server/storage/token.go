package storage

import (
	"context"
	"time"
)

// TokenRegistry is the durable record of every issued credential and its
// revocation state. Rows are keyed by JTI and are never cleared of an existing
// revocation; a revoked token stays revoked.
type TokenRegistry interface {
	// Record inserts the registry row for a freshly issued token. Safe under
	// retry: if the row already exists its expiry is refreshed but an existing
	// revocation is preserved.
	Record(ctx context.Context, jti, userID string, expiresAt time.Time) error

	// Revoke marks the token revoked. If the row does not exist yet (issuance
	// write raced with logout) it is created pre-revoked. Idempotent: the
	// first revocation timestamp wins.
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error

	// IsRevoked reports whether a row exists for jti with a revocation set.
	// An absent row counts as not revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpired removes rows whose expiry has passed and returns the
	// number deleted. Run by a maintenance task, not by request handling.
	DeleteExpired(ctx context.Context) (int, error)
}
