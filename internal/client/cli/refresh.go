package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/authd/internal/client/storage"
)

func (c *Cli) runRefresh(ctx context.Context) error {
	c.io.Println("=== Token Refresh ===")

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("not authenticated, run 'authd-client login' first")
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	tokens, err := c.apiClient.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return err
	}

	// Rotation: the old refresh token is revoked by the server,
	// so the stored pair must be replaced as a whole.
	session.AccessToken = tokens.AccessToken
	session.RefreshToken = tokens.RefreshToken
	session.ExpiresAt = time.Now().Unix() + tokens.ExpiresIn

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println("✓ Tokens refreshed!")
	c.io.Printf("Access token expires in: %d seconds\n", tokens.ExpiresIn)

	return nil
}
