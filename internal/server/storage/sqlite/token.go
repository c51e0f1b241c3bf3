package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record inserts the registry row for a freshly issued token.
// Upsert keyed on jti: a retried write refreshes the expiry but never clears
// an existing revocation.
func (s *Storage) Record(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	now := time.Now().Unix()

	query := `
		INSERT INTO auth_tokens (jti, user_id, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, NULL, ?, ?)
		ON CONFLICT (jti) DO UPDATE SET
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, jti, userID, expiresAt.Unix(), now, now)
	if err != nil {
		return fmt.Errorf("failed to record token: %w", err)
	}

	return nil
}

// Revoke marks the token revoked. A row that does not exist yet is created
// pre-revoked, closing the issuance/logout race in favor of deny-by-default.
// Idempotent: the first revocation timestamp wins.
func (s *Storage) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	now := time.Now().Unix()

	query := `
		INSERT INTO auth_tokens (jti, user_id, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (jti) DO UPDATE SET
			revoked_at = COALESCE(auth_tokens.revoked_at, excluded.revoked_at),
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, jti, userID, expiresAt.Unix(), now, now, now)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked reports whether a row exists for jti with a revocation set.
// An absent row counts as not revoked.
func (s *Storage) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT revoked_at IS NOT NULL FROM auth_tokens WHERE jti = ?`

	var revoked bool
	err := s.db.QueryRowContext(ctx, query, jti).Scan(&revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}

	return revoked, nil
}

// DeleteExpired removes rows whose expiry has passed
func (s *Storage) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM auth_tokens WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
