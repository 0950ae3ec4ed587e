package storage

import (
	"context"
)

// SessionStorage defines the interface for persisting the CLI session
// (issued tokens) between invocations.
type SessionStorage interface {
	// SaveSession stores the session data, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if no session exists
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error

	// IsAuthenticated checks whether a non-expired session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// Session represents a stored token pair. The file lives with user-only
// permissions; tokens are bearer credentials and must not leave the machine.
type Session struct {
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds, access token expiry
}
