package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetrac/timetrac/internal/config"
	"github.com/timetrac/timetrac/internal/server/handlers"
	"github.com/timetrac/timetrac/internal/server/middleware"
	"github.com/timetrac/timetrac/internal/server/storage/sqlite"
	"github.com/timetrac/timetrac/internal/server/token"
)

const (
	// login/register limits per client IP
	authRateLimit  = 10
	authRateWindow = time.Minute

	// expired registry rows are swept on this interval
	registrySweepInterval = time.Hour

	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DevSecret {
		logger.Warn("JWT_SECRET is not set, using the insecure development fallback; " +
			"do not run this configuration in production")
	}

	store, err := sqlite.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	authHandler := handlers.NewAuthHandler(logger, store, store, tokens)
	tracksHandler := handlers.NewTracksHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	requireAuth := middleware.Auth(logger, tokens, store, store)
	limitAuth := middleware.RateLimit(authRateLimit, authRateWindow, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	mux.Handle("POST /api/v1/auth/register", limitAuth(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", limitAuth(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	mux.Handle("GET /api/v1/tracks", requireAuth(http.HandlerFunc(tracksHandler.List)))
	mux.Handle("POST /api/v1/tracks/start", requireAuth(http.HandlerFunc(tracksHandler.Start)))
	mux.Handle("POST /api/v1/tracks/stop", requireAuth(http.HandlerFunc(tracksHandler.Stop)))
	mux.Handle("PATCH /api/v1/tracks/{id}", requireAuth(http.HandlerFunc(tracksHandler.Update)))
	mux.Handle("DELETE /api/v1/tracks/{id}", requireAuth(http.HandlerFunc(tracksHandler.Delete)))

	handler := middleware.Recovery(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(mux),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go sweepRegistry(ctx, logger, store)

	errC := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// sweepRegistry periodically garbage-collects expired token rows. Revoked rows
// stay until their expiry passes so replayed credentials keep failing closed.
func sweepRegistry(ctx context.Context, logger *slog.Logger, store *sqlite.Storage) {
	ticker := time.NewTicker(registrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Error("registry sweep failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Info("registry sweep", slog.Int("deleted", n))
			}
		}
	}
}
