package validation

import (
	"fmt"
	"regexp"
)

// EmailPattern matches a practical subset of valid email addresses.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 8
	// MaxEmailLen bounds the email length accepted on registration.
	MaxEmailLen = 254
	// MaxNameLen bounds the display name length accepted on registration.
	MaxNameLen = 128
)

// ValidateEmail checks that email is non-empty, within length bounds, and
// matches EmailPattern.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidatePassword checks the minimum password policy.
// Minimum 8 characters.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateName checks the optional display name length.
func ValidateName(name string) error {
	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}
