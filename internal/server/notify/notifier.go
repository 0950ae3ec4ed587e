// Package notify defines the reset-token delivery collaborator. Actual
// email delivery is out of scope for this service; implementations receive
// the plaintext token and own the channel.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Notifier delivers a password-reset token to the account holder.
// A delivery failure must never fail the reset request itself; callers log
// the error and return success to avoid leaking registration status.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error
}

// LogNotifier writes reset notifications to the log instead of sending
// them. Intended for development and tests. The token itself is logged at
// debug level only.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendPasswordReset logs the notification
func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error {
	n.logger.InfoContext(ctx, "password reset requested",
		slog.String("email", email),
		slog.Time("expires_at", expiresAt))
	n.logger.DebugContext(ctx, "password reset token issued",
		slog.String("email", email),
		slog.String("token", token))
	return nil
}
