package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/notify"
	"github.com/iudanet/authd/internal/server/storage"
	"github.com/iudanet/authd/internal/validation"
)

// TokenPair is the result of a successful Login or Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// Policy holds the login lockout policy.
type Policy struct {
	// MaxFailures is the consecutive-failure threshold before lockout.
	MaxFailures int
	// Cooldown is how long a locked account stays locked.
	Cooldown time.Duration
}

// Service orchestrates the credential lifecycle: registration, login with
// lockout, token refresh with rotation, and the password-reset flow. All
// mutable state lives in storage; the service itself is safe for concurrent
// use.
type Service struct {
	logger   *slog.Logger
	users    storage.UserStorage
	tokens   storage.TokenStorage
	resets   storage.ResetTokenStorage
	hasher   *Hasher
	codec    *TokenService
	notifier notify.Notifier
	resetTTL time.Duration
	policy   Policy
}

// NewService creates the auth service.
func NewService(
	logger *slog.Logger,
	users storage.UserStorage,
	tokens storage.TokenStorage,
	resets storage.ResetTokenStorage,
	hasher *Hasher,
	codec *TokenService,
	notifier notify.Notifier,
	resetTTL time.Duration,
	policy Policy,
) *Service {
	return &Service{
		logger:   logger,
		users:    users,
		tokens:   tokens,
		resets:   resets,
		hasher:   hasher,
		codec:    codec,
		notifier: notifier,
		resetTTL: resetTTL,
		policy:   policy,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password.
// Returns ErrEmailAlreadyExists if the email is taken, ErrInvalidEmail or
// ErrInvalidPassword on policy failures. The returned user carries no hash.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = NormalizeEmail(email)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, invalidPassword("%s", err.Error())
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, invalidPassword("%s", err.Error())
	}

	// Hash before touching storage: the single INSERT below is the
	// transactional boundary, so no user row can exist without a valid hash.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internalError(err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Roles:        []string{"user"},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, internalError(err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email))

	return user.Sanitized(), nil
}

// Login authenticates the email/password pair and issues an access and a
// refresh token. The error for an unknown email and for a wrong password is
// the same ErrInvalidCredentials, so callers cannot enumerate accounts.
// A locked account fails with ErrRateLimitExceeded until the cooldown
// elapses, even with correct credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// No account: no counter to increment.
			return nil, ErrInvalidCredentials
		}
		return nil, internalError(err)
	}

	now := time.Now()
	failures := user.FailedLogins
	if user.LockedUntil != nil {
		if now.Before(*user.LockedUntil) {
			return nil, ErrRateLimitExceeded
		}
		// Cooldown elapsed: the failure window starts over.
		failures = 0
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		failures++
		var lockedUntil *time.Time
		if failures >= s.policy.MaxFailures {
			deadline := now.Add(s.policy.Cooldown)
			lockedUntil = &deadline
			s.logger.WarnContext(ctx, "account locked after repeated failures",
				slog.String("user_id", user.ID),
				slog.Int("failures", failures))
		}
		if err := s.users.UpdateLoginState(ctx, user.ID, failures, lockedUntil, nil); err != nil {
			s.logger.ErrorContext(ctx, "failed to update login state", slog.Any("error", err))
		}
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLoginState(ctx, user.ID, 0, nil, &now); err != nil {
		// Not critical: tokens are already issued.
		s.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is rotated out; presenting a rotated or revoked token fails
// with ErrInvalidToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.ParseAndVerify(refreshToken)
	if err != nil {
		return nil, err // ErrTokenExpired or ErrInvalidToken
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	tokenHash := HashToken(refreshToken)

	stored, err := s.tokens.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			// Unknown to us: revoked or already rotated.
			return nil, ErrInvalidToken
		}
		return nil, internalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, internalError(err)
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := s.tokens.DeleteRefreshToken(ctx, tokenHash); err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
		s.logger.WarnContext(ctx, "failed to delete rotated refresh token", slog.Any("error", err))
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tokens refreshed", slog.String("user_id", user.ID))

	return pair, nil
}

// Logout revokes all of the user's refresh tokens. Outstanding access
// tokens stay valid until natural expiry.
func (s *Service) Logout(ctx context.Context, userID string) error {
	deleted, err := s.tokens.DeleteUserTokens(ctx, userID)
	if err != nil {
		return internalError(err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
		slog.Int("tokens_deleted", deleted))

	return nil
}

// RequestPasswordReset creates a single-use reset token and hands it to the
// notifier. Always succeeds for well-formed input regardless of whether the
// email is registered, so the response leaks nothing.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.DebugContext(ctx, "password reset for unknown email")
			return nil
		}
		return internalError(err)
	}
	if !user.Active {
		return nil
	}

	token, err := GenerateResetToken()
	if err != nil {
		return internalError(err)
	}

	now := time.Now()
	record := &models.ResetToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: HashToken(token),
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}

	if err := s.resets.CreateResetToken(ctx, record); err != nil {
		return internalError(err)
	}

	// Delivery failures must not fail the request.
	if err := s.notifier.SendPasswordReset(ctx, user.Email, token, record.ExpiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to send reset notification",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	return nil
}

// CompletePasswordReset consumes the reset token and stores the new
// password hash. The consume is atomic: racing calls on the same token see
// exactly one success. All of the user's refresh tokens are revoked;
// outstanding access tokens expire naturally.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return invalidPassword("%s", err.Error())
	}

	record, err := s.resets.ConsumeResetToken(ctx, HashToken(token))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrResetTokenNotFound),
			errors.Is(err, storage.ErrResetTokenUsed):
			return ErrInvalidToken
		default:
			return internalError(err)
		}
	}

	if time.Now().After(record.ExpiresAt) {
		return ErrTokenExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internalError(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, record.UserID, hash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return internalError(err)
	}

	if _, err := s.tokens.DeleteUserTokens(ctx, record.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke refresh tokens after reset",
			slog.String("user_id", record.UserID),
			slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "password reset completed", slog.String("user_id", record.UserID))

	return nil
}

// ValidateAccess verifies an access token and returns its claims.
// A refresh token presented here fails with ErrInvalidToken.
func (s *Service) ValidateAccess(tokenString string) (*Claims, error) {
	claims, err := s.codec.ParseAndVerify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUser loads the sanitized user record for the given ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err)
	}
	return user.Sanitized(), nil
}

// issueTokens creates the access/refresh pair and persists the refresh
// token hash.
func (s *Service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, expiresIn, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, internalError(err)
	}

	refreshToken, expiresAt, err := s.codec.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return nil, internalError(err)
	}

	record := &models.RefreshToken{
		TokenHash: HashToken(refreshToken),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.tokens.SaveRefreshToken(ctx, record); err != nil {
		return nil, internalError(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
