package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/authd/internal/auth"
	"github.com/iudanet/authd/internal/server/handlers"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (v *fakeValidator) ValidateAccess(_ string) (*auth.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := &auth.Claims{Email: "alice@example.com", TokenType: auth.TokenTypeAccess}
	validClaims.Subject = "user-1"

	tests := []struct {
		validator  *fakeValidator
		name       string
		authHeader string
		wantCode   int
		wantNext   bool
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer sometoken",
			validator:  &fakeValidator{claims: validClaims},
			wantCode:   http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "lowercase scheme accepted",
			authHeader: "bearer sometoken",
			validator:  &fakeValidator{claims: validClaims},
			wantCode:   http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			validator:  &fakeValidator{claims: validClaims},
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			validator:  &fakeValidator{claims: validClaims},
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "no token after scheme",
			authHeader: "Bearer",
			validator:  &fakeValidator{claims: validClaims},
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "validator rejects",
			authHeader: "Bearer sometoken",
			validator:  &fakeValidator{err: auth.ErrInvalidToken},
			wantCode:   http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID, gotEmail string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, _ = handlers.UserIDFromContext(r.Context())
				gotEmail, _ = handlers.EmailFromContext(r.Context())
			})

			handler := AuthMiddleware(discardLogger(), tt.validator)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.Equal(t, "user-1", gotUserID)
				assert.Equal(t, "alice@example.com", gotEmail)
			}
		})
	}
}
