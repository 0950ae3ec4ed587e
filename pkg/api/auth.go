// Package api defines the JSON request/response types shared by the server
// and the CLI client.
package api

import "time"

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`    // unique email address
	Password string `json:"password"` // plaintext password, min 8 chars
	Name     string `json:"name"`     // optional display name
}

// UserResponse represents a user record returned to callers.
// Never carries the password hash.
type UserResponse struct {
	LastLogin *time.Time `json:"last_login,omitempty"`
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Roles     []string   `json:"roles"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// LoginRequest represents an authentication request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // access token lifetime in seconds
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ResetRequest represents a password reset request
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetCompleteRequest represents the completion of a password reset
type ResetCompleteRequest struct {
	Token       string `json:"token"`        // single-use reset token
	NewPassword string `json:"new_password"` // plaintext new password
}

// MessageResponse represents a generic acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error reply
type ErrorResponse struct {
	Error   string `json:"error"`             // HTTP status text
	Message string `json:"message,omitempty"` // caller-safe detail
}
