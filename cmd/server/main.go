package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/authd/internal/auth"
	"github.com/iudanet/authd/internal/config"
	"github.com/iudanet/authd/internal/server"
	"github.com/iudanet/authd/internal/server/notify"
	"github.com/iudanet/authd/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	hasher := auth.NewHasher(cfg.BcryptCost)
	codec := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	notifier := notify.NewLogNotifier(logger)

	service := auth.NewService(
		logger,
		store,
		store,
		store,
		hasher,
		codec,
		notifier,
		cfg.ResetTokenTTL,
		auth.Policy{
			MaxFailures: cfg.LoginMaxFailures,
			Cooldown:    cfg.LoginCooldown,
		},
	)

	srv := server.New(cfg, server.Deps{
		Logger:  logger,
		Service: service,
		Storage: store,
		Version: Version,
	})

	logger.Info("authd server starting",
		"version", Version,
		"addr", cfg.HTTPAddr,
		"database", cfg.DatabasePath)

	return srv.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("authd server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
