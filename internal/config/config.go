// Package config loads and validates server configuration from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds server configuration loaded once at startup. It is immutable
// after Load returns; components receive it (or slices of it) by value and
// never mutate it.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. ":8080").
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabasePath is the SQLite database file path (":memory:" for tests).
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	// JWTSecret is the HMAC signing key. Required; never logged.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim on issued tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// AccessTokenTTL is the access token lifetime (e.g. "30m").
	AccessTokenTTL time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	// RefreshTokenTTL is the refresh token lifetime (e.g. "720h").
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	// ResetTokenTTL is the password-reset token lifetime (e.g. "1h").
	ResetTokenTTL time.Duration `mapstructure:"RESET_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31).
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// LoginMaxFailures is the consecutive-failure threshold before lockout.
	LoginMaxFailures int `mapstructure:"LOGIN_MAX_FAILURES"`
	// LoginCooldown is how long a locked account stays locked.
	LoginCooldown time.Duration `mapstructure:"LOGIN_COOLDOWN"`
	// RateLimitRequests is the per-IP request budget per RateLimitWindow.
	RateLimitRequests int `mapstructure:"RATE_LIMIT_REQUESTS"`
	// RateLimitWindow is the per-IP rate limit window.
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	// CleanupInterval is how often expired tokens are swept from storage.
	CleanupInterval time.Duration `mapstructure:"CLEANUP_INTERVAL"`
	// LogLevel is the slog level: debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// MinSecretLen is the minimum accepted JWT secret length in bytes.
const MinSecretLen = 32

// Load reads .env (if present), then builds and validates Config from the
// environment. Env vars override .env values. The process must fail fast on
// an invalid config, so Load returns an error rather than falling back on
// defaults for required values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine (e.g. in CI)

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_PATH", "authd.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "authd")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h")
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOGIN_MAX_FAILURES", 5)
	v.SetDefault("LOGIN_COOLDOWN", "15m")
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("CLEANUP_INTERVAL", "1h")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: HTTP_ADDR must be set")
	}
	if c.DatabasePath == "" {
		return errors.New("config: DATABASE_PATH must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < MinSecretLen {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", MinSecretLen)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("config: ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return errors.New("config: REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL")
	}
	if c.ResetTokenTTL <= 0 {
		return errors.New("config: RESET_TOKEN_TTL must be positive")
	}
	if c.LoginMaxFailures <= 0 {
		return errors.New("config: LOGIN_MAX_FAILURES must be positive")
	}
	if c.LoginCooldown <= 0 {
		return errors.New("config: LOGIN_COOLDOWN must be positive")
	}
	return nil
}
