package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/storage"
)

// CreateResetToken stores a new reset token record
func (s *Storage) CreateResetToken(ctx context.Context, token *models.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (id, user_id, token_hash, expires_at, created_at, used)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
		token.Used,
	)

	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	return nil
}

// ConsumeResetToken atomically marks the token used and returns it.
// The conditional UPDATE is the single indivisible check-and-mark: with
// concurrent consumers racing on the same hash, exactly one sees an
// affected row.
func (s *Storage) ConsumeResetToken(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	update := `UPDATE reset_tokens SET used = 1 WHERE token_hash = ? AND used = 0`

	result, err := s.db.ExecContext(ctx, update, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		// Distinguish missing from already-used for the caller
		var used bool
		err := s.db.QueryRowContext(ctx, `SELECT used FROM reset_tokens WHERE token_hash = ?`, tokenHash).Scan(&used)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrResetTokenNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check reset token: %w", err)
		}
		return nil, storage.ErrResetTokenUsed
	}

	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, used
		FROM reset_tokens
		WHERE token_hash = ?
	`

	token := &models.ResetToken{}
	err = s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.Used,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return token, nil
}

// DeleteUserResetTokens deletes all reset tokens for a user
func (s *Storage) DeleteUserResetTokens(ctx context.Context, userID string) (int, error) {
	query := `DELETE FROM reset_tokens WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user reset tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// DeleteExpiredResetTokens removes all expired reset tokens
func (s *Storage) DeleteExpiredResetTokens(ctx context.Context) (int, error) {
	query := `DELETE FROM reset_tokens WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
