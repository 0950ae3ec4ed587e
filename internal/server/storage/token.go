package storage

import (
	"context"

	"github.com/iudanet/authd/internal/models"
)

// TokenStorage defines the interface for refresh token persistence.
// Tokens are keyed by the SHA-256 hash of the token string; plaintext
// tokens never reach this layer.
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token record
	// A record with the same hash is replaced
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves a refresh token by hash
	// Returns ErrTokenNotFound if it doesn't exist
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// DeleteRefreshToken deletes a refresh token by hash
	// Returns ErrTokenNotFound if it doesn't exist
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens deletes all refresh tokens for a user
	// Returns the number of deleted tokens
	DeleteUserTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredTokens removes all expired refresh tokens
	// Returns the number of deleted tokens
	DeleteExpiredTokens(ctx context.Context) (int, error)
}
