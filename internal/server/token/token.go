// Package token mints and verifies the signed bearer credentials used by the
// API. Verification is purely cryptographic; revocation is a separate registry
// lookup performed by the caller.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Callers that surface errors to clients must collapse
// all three into one generic rejection to avoid an oracle.
var (
	// ErrMalformed indicates the credential is structurally invalid.
	ErrMalformed = errors.New("malformed token")

	// ErrInvalidSignature indicates tampering or a secret mismatch.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired indicates the credential's expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Claims are the signed claims carried by every issued credential.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256-signed credentials. The secret and TTL are
// fixed at construction; the service holds no per-request state.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. secret should be a cryptographically
// random string; ttl bounds the credential lifetime.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a credential for userID with a fresh JTI. The caller is
// responsible for persisting the registry row.
func (s *Service) Issue(userID string) (credential, jti string, expiresAt time.Time, err error) {
	now := s.now()
	jti = uuid.New().String()
	expiresAt = now.Add(s.ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	credential, err = t.SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return credential, jti, expiresAt, nil
}

// Verify checks the credential's signature and expiry and returns its claims.
// A credential is already invalid at the exact expiry instant.
func (s *Service) Verify(credential string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrMalformed
	}

	// Pin the boundary independent of library skew: the expiry instant itself
	// is already invalid.
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	return claims, nil
}
