package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/authd/internal/client/storage"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("No active session.")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	// Revoke server side first; the local session goes away regardless.
	if err := c.apiClient.Logout(ctx, session.AccessToken); err != nil {
		c.io.Errorf("Warning: server logout failed: %v\n", err)
	}

	if err := c.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
