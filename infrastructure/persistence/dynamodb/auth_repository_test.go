package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestRefreshTokenLookupByHash(t *testing.T) {
	store := newFakeStore()
	repo := NewAuthRepository(store, zap.NewNop())
	userID := valueobjects.NewUserID()

	token := entities.RefreshToken{
		UserID:    userID,
		TokenHash: "sha256:abc",
		Device:    "iphone-15",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.SaveRefreshToken(context.Background(), token))

	got, err := repo.GetRefreshToken(context.Background(), "sha256:abc")
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "iphone-15", got.Device)
	assert.False(t, got.Expired(time.Now()))

	_, err = repo.GetRefreshToken(context.Background(), "sha256:nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteAllRefreshTokensClearsEverySession(t *testing.T) {
	store := newFakeStore()
	repo := NewAuthRepository(store, zap.NewNop())
	userID := valueobjects.NewUserID()

	for _, hash := range []string{"sha256:one", "sha256:two", "sha256:three"} {
		require.NoError(t, repo.SaveRefreshToken(context.Background(), entities.RefreshToken{
			UserID:    userID,
			TokenHash: hash,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}))
	}

	require.NoError(t, repo.DeleteAllRefreshTokens(context.Background(), userID))

	_, err := repo.GetRefreshToken(context.Background(), "sha256:two")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 0, store.len())
}

func TestVerificationCodeRoundTrip(t *testing.T) {
	store := newFakeStore()
	repo := NewAuthRepository(store, zap.NewNop())
	userID := valueobjects.NewUserID()

	code := entities.VerificationCode{
		UserID:    userID,
		Phone:     "+15555550123",
		Code:      "482913",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.SaveVerificationCode(context.Background(), code))

	got, err := repo.GetVerificationCode(context.Background(), userID, "+15555550123")
	require.NoError(t, err)
	assert.Equal(t, "482913", got.Code)

	require.NoError(t, repo.DeleteVerificationCode(context.Background(), userID, "+15555550123"))
	_, err = repo.GetVerificationCode(context.Background(), userID, "+15555550123")
	assert.True(t, errors.IsNotFound(err))
}

func TestPasswordResetLookupByHash(t *testing.T) {
	store := newFakeStore()
	repo := NewAuthRepository(store, zap.NewNop())
	userID := valueobjects.NewUserID()

	req := entities.PasswordResetRequest{
		UserID:    userID,
		Email:     "sam@example.com",
		TokenHash: "sha256:reset",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.SavePasswordReset(context.Background(), req))

	got, err := repo.GetPasswordResetByHash(context.Background(), "sha256:reset")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", got.Email)

	require.NoError(t, repo.DeletePasswordReset(context.Background(), userID, "sam@example.com"))
	_, err = repo.GetPasswordResetByHash(context.Background(), "sha256:reset")
	assert.True(t, errors.IsNotFound(err))
}
