package models

import "time"

// User represents an identity record in the credential store.
// PasswordHash is a bcrypt hash; the plaintext is never stored or logged.
type User struct {
	LastLogin    *time.Time `json:"last_login,omitempty"` // last successful login
	LockedUntil  *time.Time `json:"-"`                    // lockout deadline after repeated failures
	ID           string     `json:"id"`                   // UUID
	Email        string     `json:"email"`                // unique, lowercased
	Name         string     `json:"name"`                 // display name
	PasswordHash string     `json:"-"`                    // bcrypt hash, embeds salt and cost
	Roles        []string   `json:"roles"`                // role set, order irrelevant
	FailedLogins int        `json:"-"`                    // consecutive failed login attempts
	Active       bool       `json:"active"`               // inactive users cannot log in
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sanitized returns a copy of the user safe to return to API callers:
// no password hash, no lockout bookkeeping.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	out.FailedLogins = 0
	out.LockedUntil = nil
	return &out
}

// RefreshToken represents a persisted refresh token. Only the SHA-256 hash
// of the token string is stored.
type RefreshToken struct {
	TokenHash string    `json:"-"`       // sha256 hex of the token string
	UserID    string    `json:"user_id"` // owning user
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ResetToken represents a single-use password-reset token. Only the SHA-256
// hash of the token string is stored; Used is monotonic false -> true.
type ResetToken struct {
	ID        string    `json:"id"`      // UUID
	UserID    string    `json:"user_id"` // owning user, cascade-deleted with it
	TokenHash string    `json:"-"`       // sha256 hex of the token string
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Used      bool      `json:"used"`
}
