package storage

import (
	"context"
	"time"

	"github.com/iudanet/authd/internal/models"
)

// UserStorage defines the interface for user record persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if the email is already taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash
	// Returns ErrUserNotFound if the user doesn't exist
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error

	// UpdateLoginState persists the failed-login counter, lockout deadline
	// and last-login timestamp in one statement
	UpdateLoginState(ctx context.Context, userID string, failedLogins int, lockedUntil, lastLogin *time.Time) error

	// SetActive flips the active flag (deactivation)
	// Returns ErrUserNotFound if the user doesn't exist
	SetActive(ctx context.Context, userID string, active bool) error

	// DeleteUser deletes a user by ID; owned tokens cascade
	// Returns ErrUserNotFound if the user doesn't exist
	DeleteUser(ctx context.Context, userID string) error
}
