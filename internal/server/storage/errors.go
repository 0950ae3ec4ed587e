package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that the refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrResetTokenNotFound indicates that the reset token was not found
	ErrResetTokenNotFound = errors.New("reset token not found")

	// ErrResetTokenUsed indicates that the reset token was already consumed
	ErrResetTokenUsed = errors.New("reset token already used")
)
