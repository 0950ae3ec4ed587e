package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/authd/internal/validation"
)

func (c *Cli) runResetRequest(ctx context.Context) error {
	c.io.Println("=== Password Reset Request ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	if err := c.apiClient.RequestPasswordReset(ctx, email); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Request accepted.")
	c.io.Println("If the account exists, a reset token has been issued.")
	c.io.Println("Run 'authd-client reset-complete <token>' once you receive it.")

	return nil
}

func (c *Cli) runResetComplete(ctx context.Context, args []string) error {
	c.io.Println("=== Password Reset ===")
	c.io.Println()

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		token, err = c.io.ReadInput("Reset token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("reset token is required")
	}

	password, err := c.io.ReadPassword(fmt.Sprintf("New password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	if err := c.apiClient.CompletePasswordReset(ctx, token, password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Password changed!")
	c.io.Println("All previous sessions have been revoked. Please login again.")

	return nil
}
