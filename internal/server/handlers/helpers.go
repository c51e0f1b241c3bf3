package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/pkg/api"
)

// contextKey is the type for request context keys
type contextKey string

// UserKey stores the authenticated *models.User in the request context
const UserKey contextKey = "current_user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// sendJSON writes v as a JSON response with the given status code.
func sendJSON(logger *slog.Logger, w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// sendError writes an api.ErrorResponse with the given status code.
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, status int) {
	sendJSON(logger, w, api.ErrorResponse{Error: message}, status)
}
