package storage

import (
	"context"

	"github.com/iudanet/authd/internal/models"
)

// ResetTokenStorage defines the interface for single-use password-reset
// token persistence. Tokens are keyed by the SHA-256 hash of the plaintext
// token handed to the user.
type ResetTokenStorage interface {
	// CreateResetToken stores a new reset token record
	CreateResetToken(ctx context.Context, token *models.ResetToken) error

	// ConsumeResetToken atomically marks the token used and returns it.
	// The check-and-mark is a single statement: of any number of concurrent
	// calls with the same hash, exactly one succeeds.
	// Returns ErrResetTokenNotFound if no such token exists,
	// ErrResetTokenUsed if it was already consumed.
	// Expiry is NOT checked here; callers compare ExpiresAt themselves so
	// that an expired token can be reported distinctly.
	ConsumeResetToken(ctx context.Context, tokenHash string) (*models.ResetToken, error)

	// DeleteUserResetTokens deletes all reset tokens for a user
	// Returns the number of deleted tokens
	DeleteUserResetTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredResetTokens removes all expired reset tokens
	// Returns the number of deleted tokens
	DeleteExpiredResetTokens(ctx context.Context) (int, error)
}
