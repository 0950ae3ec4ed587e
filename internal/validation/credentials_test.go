package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantError bool
	}{
		{name: "valid simple", email: "alice@example.com", wantError: false},
		{name: "valid with plus", email: "alice+tag@example.com", wantError: false},
		{name: "valid subdomain", email: "alice@mail.example.co.uk", wantError: false},
		{name: "valid dots and digits", email: "a.b.c.42@example.io", wantError: false},
		{name: "empty", email: "", wantError: true},
		{name: "no at sign", email: "alice.example.com", wantError: true},
		{name: "no domain", email: "alice@", wantError: true},
		{name: "no tld", email: "alice@localhost", wantError: true},
		{name: "spaces", email: "alice smith@example.com", wantError: true},
		{name: "double at", email: "alice@@example.com", wantError: true},
		{name: "too long", email: strings.Repeat("a", MaxEmailLen) + "@example.com", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantError bool
	}{
		{name: "valid", password: "long enough password", wantError: false},
		{name: "exactly min length", password: strings.Repeat("x", MinPasswordLen), wantError: false},
		{name: "empty", password: "", wantError: true},
		{name: "one short of min", password: strings.Repeat("x", MinPasswordLen-1), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName(""))
	assert.NoError(t, ValidateName("Alice"))
	assert.NoError(t, ValidateName(strings.Repeat("n", MaxNameLen)))
	assert.Error(t, ValidateName(strings.Repeat("n", MaxNameLen+1)))
}
