// Package server wires the HTTP surface: routing, middleware chain,
// graceful shutdown and the periodic expired-token sweep.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/authd/internal/auth"
	"github.com/iudanet/authd/internal/config"
	"github.com/iudanet/authd/internal/server/handlers"
	"github.com/iudanet/authd/internal/server/middleware"
	"github.com/iudanet/authd/internal/server/storage"
)

// TokenSweeper removes expired token records
type TokenSweeper interface {
	DeleteExpiredTokens(ctx context.Context) (int, error)
	DeleteExpiredResetTokens(ctx context.Context) (int, error)
}

// Server is the HTTP server for the auth service
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	sweeper    TokenSweeper
	interval   time.Duration
	stopC      chan struct{}
}

// Deps carries everything New needs to assemble the server
type Deps struct {
	Logger  *slog.Logger
	Service *auth.Service
	Storage interface {
		storage.TokenStorage
		storage.ResetTokenStorage
		Ping(ctx context.Context) error
	}
	Version string
}

// New assembles the router and middleware chain
func New(cfg *config.Config, deps Deps) *Server {
	authHandler := handlers.NewAuthHandler(deps.Logger, deps.Service)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.Storage, deps.Version)

	requireAuth := middleware.AuthMiddleware(deps.Logger, deps.Service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/reset/request", authHandler.ResetRequest)
	mux.HandleFunc("POST /api/v1/auth/reset/complete", authHandler.ResetComplete)
	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow, deps.Logger)(handler)
	handler = middleware.LoggingWithSkip(deps.Logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(deps.Logger)(handler)

	return &Server{
		logger: deps.Logger,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		sweeper:  deps.Storage,
		interval: cfg.CleanupInterval,
		stopC:    make(chan struct{}),
	}
}

// Run starts the HTTP server and the token sweeper and blocks until ctx is
// canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.sweepLoop(ctx)

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	close(s.stopC)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// sweepLoop periodically removes expired refresh and reset tokens
func (s *Server) sweepLoop(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refresh, err := s.sweeper.DeleteExpiredTokens(ctx)
			if err != nil {
				s.logger.Error("failed to sweep expired refresh tokens", "error", err)
			}
			reset, err := s.sweeper.DeleteExpiredResetTokens(ctx)
			if err != nil {
				s.logger.Error("failed to sweep expired reset tokens", "error", err)
			}
			if refresh > 0 || reset > 0 {
				s.logger.Info("expired tokens swept",
					"refresh_tokens", refresh,
					"reset_tokens", reset)
			}
		case <-s.stopC:
			return
		case <-ctx.Done():
			return
		}
	}
}
