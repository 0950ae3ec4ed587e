package cli

import (
	"context"

	"github.com/iudanet/authd/internal/client/iocli"
	"github.com/iudanet/authd/internal/client/storage"
	"github.com/iudanet/authd/pkg/api"
)

//go:generate moq -out api_mock.go . APIClient

// APIClient is the subset of the HTTP client the commands need.
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, accessToken string) (*api.UserResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

type Cli struct {
	apiClient APIClient
	sessions  storage.SessionStorage
	io        iocli.IO
}

func New(apiClient APIClient, sessions storage.SessionStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
	}
}
