package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/authd/internal/client/storage"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return fmt.Errorf("not authenticated, run 'authd-client login' first")
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	user, err := c.apiClient.Me(ctx, session.AccessToken)
	if err != nil {
		return err
	}

	c.io.Println("=== Profile ===")
	c.io.Println()
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email:   %s\n", user.Email)
	if user.Name != "" {
		c.io.Printf("Name:    %s\n", user.Name)
	}
	c.io.Printf("Roles:   %s\n", strings.Join(user.Roles, ", "))
	c.io.Printf("Active:  %t\n", user.Active)
	if user.LastLogin != nil {
		c.io.Printf("Last login: %s\n", user.LastLogin.Format(time.RFC3339))
	}

	return nil
}
