package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testUser(id, email string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Roles:        []string{"user"},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStorage_CreateAndGetUser(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	user := testUser("user-1", "alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, user.Email, byEmail.Email)
	assert.Equal(t, user.Name, byEmail.Name)
	assert.Equal(t, user.PasswordHash, byEmail.PasswordHash)
	assert.Equal(t, []string{"user"}, byEmail.Roles)
	assert.True(t, byEmail.Active)
	assert.Zero(t, byEmail.FailedLogins)
	assert.Nil(t, byEmail.LockedUntil)
	assert.Nil(t, byEmail.LastLogin)

	byID, err := s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
}

func TestStorage_CreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("user-1", "alice@example.com")))

	err := s.CreateUser(ctx, testUser("user-2", "alice@example.com"))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestStorage_GetUser_NotFound(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_UpdatePasswordHash(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("user-1", "alice@example.com")))

	require.NoError(t, s.UpdatePasswordHash(ctx, "user-1", "$2a$10$newhashnewhashnewhash"))

	user, err := s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhashnewhashnewhash", user.PasswordHash)

	err = s.UpdatePasswordHash(ctx, "no-such-id", "hash")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_UpdateLoginState(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("user-1", "alice@example.com")))

	lockedUntil := time.Now().Add(15 * time.Minute).UTC()
	require.NoError(t, s.UpdateLoginState(ctx, "user-1", 5, &lockedUntil, nil))

	user, err := s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, user.FailedLogins)
	require.NotNil(t, user.LockedUntil)
	assert.WithinDuration(t, lockedUntil, *user.LockedUntil, time.Second)
	assert.Nil(t, user.LastLogin, "nil lastLogin leaves the column untouched")

	// Successful login: counter cleared, lock cleared, last login stamped
	loginAt := time.Now().UTC()
	require.NoError(t, s.UpdateLoginState(ctx, "user-1", 0, nil, &loginAt))

	user, err = s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, user.FailedLogins)
	assert.Nil(t, user.LockedUntil)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, loginAt, *user.LastLogin, time.Second)

	// Later failure update keeps the last-login timestamp
	require.NoError(t, s.UpdateLoginState(ctx, "user-1", 1, nil, nil))
	user, err = s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.FailedLogins)
	require.NotNil(t, user.LastLogin)

	err = s.UpdateLoginState(ctx, "no-such-id", 0, nil, nil)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_SetActive(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("user-1", "alice@example.com")))

	require.NoError(t, s.SetActive(ctx, "user-1", false))

	user, err := s.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, user.Active)

	err = s.SetActive(ctx, "no-such-id", true)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_DeleteUser_CascadesTokens(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("user-1", "alice@example.com")))
	require.NoError(t, s.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenHash: "refresh-hash",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, s.CreateResetToken(ctx, &models.ResetToken{
		ID:        "reset-1",
		UserID:    "user-1",
		TokenHash: "reset-hash",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.DeleteUser(ctx, "user-1"))

	_, err := s.GetUserByID(ctx, "user-1")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.GetRefreshToken(ctx, "refresh-hash")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	_, err = s.ConsumeResetToken(ctx, "reset-hash")
	assert.ErrorIs(t, err, storage.ErrResetTokenNotFound)

	err = s.DeleteUser(ctx, "user-1")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
