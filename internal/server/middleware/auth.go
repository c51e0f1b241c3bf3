package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/timetrac/timetrac/internal/server/handlers"
	"github.com/timetrac/timetrac/internal/server/storage"
	"github.com/timetrac/timetrac/internal/server/token"
)

const unauthorizedBody = `{"error":"unauthorized"}`

// Auth creates the middleware that resolves a bearer credential to a user.
// Per request: extract the credential, verify signature and expiry, check the
// registry for revocation, load the user, attach it to the context.
//
// Every failure mode produces the same 401 body; the internal distinction
// (missing vs invalid vs revoked vs unknown user) is logged only, so the
// response can't be used as an oracle.
func Auth(logger *slog.Logger, tokens *token.Service, registry storage.TokenRegistry, users storage.UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			credential, ok := extractBearer(r)
			if !ok {
				logger.WarnContext(ctx, "auth rejected: missing credential",
					slog.String("path", r.URL.Path))
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(credential)
			if err != nil {
				logger.WarnContext(ctx, "auth rejected: invalid credential",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				unauthorized(w)
				return
			}

			revoked, err := registry.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.ErrorContext(ctx, "revocation check failed",
					slog.String("jti", claims.ID),
					slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if revoked {
				logger.WarnContext(ctx, "auth rejected: revoked credential",
					slog.String("jti", claims.ID),
					slog.String("user_id", claims.UserID))
				unauthorized(w)
				return
			}

			user, err := users.GetUserByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					// Deleted account holding a still-valid token.
					logger.WarnContext(ctx, "auth rejected: unknown user",
						slog.String("user_id", claims.UserID))
					unauthorized(w)
					return
				}
				logger.ErrorContext(ctx, "failed to load user",
					slog.String("user_id", claims.UserID),
					slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", user.ID),
				slog.String("jti", claims.ID))

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, user)))
		})
	}
}

// extractBearer pulls the credential out of the Authorization header.
func extractBearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", false
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
