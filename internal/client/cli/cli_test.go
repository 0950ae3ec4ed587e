package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authd/internal/client/storage"
	"github.com/iudanet/authd/pkg/api"
)

// fakeIO scripts terminal input and records everything printed.
type fakeIO struct {
	inputs    []string
	passwords []string
	out       strings.Builder
}

func (f *fakeIO) Println(a ...any) {
	f.out.WriteString(fmt.Sprintln(a...))
}

func (f *fakeIO) Printf(format string, a ...any) {
	fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) Errorf(format string, a ...any) {
	fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) ReadInput(_ string) (string, error) {
	if len(f.inputs) == 0 {
		return "", fmt.Errorf("no scripted input left")
	}
	in := f.inputs[0]
	f.inputs = f.inputs[1:]
	return in, nil
}

func (f *fakeIO) ReadPassword(_ string) (string, error) {
	if len(f.passwords) == 0 {
		return "", fmt.Errorf("no scripted password left")
	}
	pw := f.passwords[0]
	f.passwords = f.passwords[1:]
	return pw, nil
}

// fakeAPI implements APIClient with pluggable functions.
type fakeAPI struct {
	registerFn      func(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error)
	loginFn         func(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	refreshFn       func(ctx context.Context, refreshToken string) (*api.TokenResponse, error)
	logoutFn        func(ctx context.Context, accessToken string) error
	meFn            func(ctx context.Context, accessToken string) (*api.UserResponse, error)
	resetRequestFn  func(ctx context.Context, email string) error
	resetCompleteFn func(ctx context.Context, token, newPassword string) error
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAPI) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAPI) Logout(ctx context.Context, accessToken string) error {
	return f.logoutFn(ctx, accessToken)
}

func (f *fakeAPI) Me(ctx context.Context, accessToken string) (*api.UserResponse, error) {
	return f.meFn(ctx, accessToken)
}

func (f *fakeAPI) RequestPasswordReset(ctx context.Context, email string) error {
	return f.resetRequestFn(ctx, email)
}

func (f *fakeAPI) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	return f.resetCompleteFn(ctx, token, newPassword)
}

// memSessions is an in-memory SessionStorage.
type memSessions struct {
	session *storage.Session
}

func (m *memSessions) SaveSession(_ context.Context, s *storage.Session) error {
	cp := *s
	m.session = &cp
	return nil
}

func (m *memSessions) GetSession(_ context.Context) (*storage.Session, error) {
	if m.session == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *m.session
	return &cp, nil
}

func (m *memSessions) DeleteSession(_ context.Context) error {
	m.session = nil
	return nil
}

func (m *memSessions) IsAuthenticated(_ context.Context) (bool, error) {
	return m.session != nil && m.session.ExpiresAt > time.Now().Unix(), nil
}

func TestCli_Register(t *testing.T) {
	io := &fakeIO{
		inputs:    []string{"alice@example.com", "Alice"},
		passwords: []string{"secret-password", "secret-password"},
	}
	apiClient := &fakeAPI{
		registerFn: func(_ context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
			assert.Equal(t, "alice@example.com", req.Email)
			assert.Equal(t, "secret-password", req.Password)
			assert.Equal(t, "Alice", req.Name)
			return &api.UserResponse{ID: "user-1", Email: req.Email}, nil
		},
	}

	c := New(apiClient, &memSessions{}, io)
	require.NoError(t, c.runRegister(context.Background()))
	assert.Contains(t, io.out.String(), "Registration successful")
	assert.Contains(t, io.out.String(), "user-1")
}

func TestCli_Register_PasswordMismatch(t *testing.T) {
	io := &fakeIO{
		inputs:    []string{"alice@example.com", "Alice"},
		passwords: []string{"secret-password", "different-password"},
	}

	c := New(&fakeAPI{}, &memSessions{}, io)
	err := c.runRegister(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestCli_Register_InvalidEmail(t *testing.T) {
	io := &fakeIO{inputs: []string{"not-an-email"}}

	c := New(&fakeAPI{}, &memSessions{}, io)
	err := c.runRegister(context.Background())
	require.Error(t, err)
}

func TestCli_Login_SavesSession(t *testing.T) {
	io := &fakeIO{
		inputs:    []string{"alice@example.com"},
		passwords: []string{"secret-password"},
	}
	apiClient := &fakeAPI{
		loginFn: func(_ context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
			assert.Equal(t, "alice@example.com", req.Email)
			return &api.TokenResponse{
				AccessToken:  "access-jwt",
				RefreshToken: "refresh-jwt",
				ExpiresIn:    1800,
			}, nil
		},
		meFn: func(_ context.Context, accessToken string) (*api.UserResponse, error) {
			assert.Equal(t, "access-jwt", accessToken)
			return &api.UserResponse{ID: "user-1", Email: "alice@example.com"}, nil
		},
	}
	sessions := &memSessions{}

	c := New(apiClient, sessions, io)
	require.NoError(t, c.runLogin(context.Background()))

	require.NotNil(t, sessions.session)
	assert.Equal(t, "access-jwt", sessions.session.AccessToken)
	assert.Equal(t, "refresh-jwt", sessions.session.RefreshToken)
	assert.Equal(t, "user-1", sessions.session.UserID)
	assert.Greater(t, sessions.session.ExpiresAt, time.Now().Unix())
	assert.Contains(t, io.out.String(), "Login successful")
}

func TestCli_Logout(t *testing.T) {
	io := &fakeIO{}
	var revokedWith string
	apiClient := &fakeAPI{
		logoutFn: func(_ context.Context, accessToken string) error {
			revokedWith = accessToken
			return nil
		},
	}
	sessions := &memSessions{session: &storage.Session{AccessToken: "access-jwt"}}

	c := New(apiClient, sessions, io)
	require.NoError(t, c.runLogout(context.Background()))

	assert.Equal(t, "access-jwt", revokedWith)
	assert.Nil(t, sessions.session)
}

func TestCli_Logout_ServerFailureStillClearsSession(t *testing.T) {
	io := &fakeIO{}
	apiClient := &fakeAPI{
		logoutFn: func(_ context.Context, _ string) error {
			return fmt.Errorf("server unreachable")
		},
	}
	sessions := &memSessions{session: &storage.Session{AccessToken: "access-jwt"}}

	c := New(apiClient, sessions, io)
	require.NoError(t, c.runLogout(context.Background()))
	assert.Nil(t, sessions.session)
}

func TestCli_Logout_NoSession(t *testing.T) {
	io := &fakeIO{}

	c := New(&fakeAPI{}, &memSessions{}, io)
	require.NoError(t, c.runLogout(context.Background()))
	assert.Contains(t, io.out.String(), "No active session")
}

func TestCli_Status(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		io := &fakeIO{}
		c := New(&fakeAPI{}, &memSessions{}, io)

		require.NoError(t, c.runStatus(context.Background()))
		assert.Contains(t, io.out.String(), "Not authenticated")
	})

	t.Run("authenticated", func(t *testing.T) {
		io := &fakeIO{}
		sessions := &memSessions{session: &storage.Session{
			Email:     "alice@example.com",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		}}
		c := New(&fakeAPI{}, sessions, io)

		require.NoError(t, c.runStatus(context.Background()))
		out := io.out.String()
		assert.Contains(t, out, "Status: Authenticated")
		assert.Contains(t, out, "alice@example.com")
		assert.Contains(t, out, "Time remaining")
	})

	t.Run("expired token", func(t *testing.T) {
		io := &fakeIO{}
		sessions := &memSessions{session: &storage.Session{
			Email:     "alice@example.com",
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		}}
		c := New(&fakeAPI{}, sessions, io)

		require.NoError(t, c.runStatus(context.Background()))
		assert.Contains(t, io.out.String(), "expired")
	})
}

func TestCli_Refresh(t *testing.T) {
	io := &fakeIO{}
	apiClient := &fakeAPI{
		refreshFn: func(_ context.Context, refreshToken string) (*api.TokenResponse, error) {
			assert.Equal(t, "old-refresh", refreshToken)
			return &api.TokenResponse{
				AccessToken:  "new-access",
				RefreshToken: "new-refresh",
				ExpiresIn:    1800,
			}, nil
		},
	}
	sessions := &memSessions{session: &storage.Session{
		Email:        "alice@example.com",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
	}}

	c := New(apiClient, sessions, io)
	require.NoError(t, c.runRefresh(context.Background()))

	assert.Equal(t, "new-access", sessions.session.AccessToken)
	assert.Equal(t, "new-refresh", sessions.session.RefreshToken)
	assert.Equal(t, "alice@example.com", sessions.session.Email, "identity fields survive rotation")
}

func TestCli_Refresh_NoSession(t *testing.T) {
	c := New(&fakeAPI{}, &memSessions{}, &fakeIO{})

	err := c.runRefresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestCli_ResetRequest(t *testing.T) {
	io := &fakeIO{inputs: []string{"alice@example.com"}}
	var requested string
	apiClient := &fakeAPI{
		resetRequestFn: func(_ context.Context, email string) error {
			requested = email
			return nil
		},
	}

	c := New(apiClient, &memSessions{}, io)
	require.NoError(t, c.runResetRequest(context.Background()))
	assert.Equal(t, "alice@example.com", requested)
}

func TestCli_ResetComplete(t *testing.T) {
	io := &fakeIO{passwords: []string{"brand-new-password", "brand-new-password"}}
	var gotToken, gotPassword string
	apiClient := &fakeAPI{
		resetCompleteFn: func(_ context.Context, token, newPassword string) error {
			gotToken = token
			gotPassword = newPassword
			return nil
		},
	}

	c := New(apiClient, &memSessions{}, io)
	require.NoError(t, c.runResetComplete(context.Background(), []string{"the-token"}))

	assert.Equal(t, "the-token", gotToken)
	assert.Equal(t, "brand-new-password", gotPassword)
	assert.Contains(t, io.out.String(), "Password changed")
}

func TestCli_ResetComplete_PromptsForToken(t *testing.T) {
	io := &fakeIO{
		inputs:    []string{"prompted-token"},
		passwords: []string{"brand-new-password", "brand-new-password"},
	}
	var gotToken string
	apiClient := &fakeAPI{
		resetCompleteFn: func(_ context.Context, token, _ string) error {
			gotToken = token
			return nil
		},
	}

	c := New(apiClient, &memSessions{}, io)
	require.NoError(t, c.runResetComplete(context.Background(), nil))
	assert.Equal(t, "prompted-token", gotToken)
}

func TestCli_ResetComplete_Mismatch(t *testing.T) {
	io := &fakeIO{passwords: []string{"one-password", "other-password"}}

	c := New(&fakeAPI{}, &memSessions{}, io)
	err := c.runResetComplete(context.Background(), []string{"the-token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}
