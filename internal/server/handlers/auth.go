package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/internal/server/storage"
	"github.com/timetrac/timetrac/internal/server/token"
	"github.com/timetrac/timetrac/internal/validation"
	"github.com/timetrac/timetrac/pkg/api"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	logger   *slog.Logger
	users    storage.UserStorage
	registry storage.TokenRegistry
	tokens   *token.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, registry storage.TokenRegistry, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		users:    users,
		registry: registry,
		tokens:   tokens,
	}
}

// Register handles POST /api/v1/auth/register
// Creates the account and issues a credential for immediate login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "email already in use", slog.String("email", email))
			sendError(h.logger, w, "email already in use", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email))

	h.issueAndRespond(w, r, user, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)

	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Same response as a wrong password: no account-existence oracle.
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", email))
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.logger.WarnContext(ctx, "login failed: wrong password", slog.String("email", email))
		sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", email))

	h.issueAndRespond(w, r, user, http.StatusOK)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}
	sendJSON(h.logger, w, user, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout
// Revokes the presented credential. Unlike the registry write at issuance this
// write is fail-closed: a persistence error fails the logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	credential, ok := bearerCredential(r)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(credential)
	if err != nil {
		h.logger.WarnContext(ctx, "logout with invalid token", slog.Any("error", err))
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.registry.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token",
			slog.String("jti", claims.ID),
			slog.Any("error", err))
		sendError(h.logger, w, "logout failed", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "token revoked",
		slog.String("jti", claims.ID),
		slog.String("user_id", claims.UserID))

	sendJSON(h.logger, w, api.StatusResponse{Status: "logged out"}, http.StatusOK)
}

// issueAndRespond mints a credential for the user, records it in the registry
// and writes the auth response. The registry write is best-effort: the signed
// credential is valid on its own, so a failed audit row must not fail a login.
func (h *AuthHandler) issueAndRespond(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	ctx := r.Context()

	credential, jti, expiresAt, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.registry.Record(ctx, jti, user.ID, expiresAt); err != nil {
		h.logger.WarnContext(ctx, "failed to record issued token",
			slog.String("jti", jti),
			slog.Any("error", err))
	}

	resp := api.AuthResponse{
		User:      user,
		Token:     credential,
		ExpiresAt: expiresAt,
	}
	sendJSON(h.logger, w, resp, status)
}

// bearerCredential extracts the bearer token from the Authorization header.
func bearerCredential(r *http.Request) (string, bool) {
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
