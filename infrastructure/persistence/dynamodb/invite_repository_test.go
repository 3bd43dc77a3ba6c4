package dynamodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestCreateInviteMintsUsableCode(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())
	groupID := valueobjects.NewGroupID()

	invite, err := repo.CreateInvite(context.Background(), groupID, valueobjects.NewUserID(), 10)
	require.NoError(t, err)
	assert.Len(t, invite.Code, inviteCodeLength)
	assert.True(t, invite.Usable())

	found, err := repo.GetByCode(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.Equal(t, groupID, found.GroupID)
}

func TestConsumeInviteBurnsUses(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())
	invite, err := repo.CreateInvite(context.Background(), valueobjects.NewGroupID(), valueobjects.NewUserID(), 2)
	require.NoError(t, err)

	first, err := repo.ConsumeInvite(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Uses)

	second, err := repo.ConsumeInvite(context.Background(), invite.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Uses)

	_, err = repo.ConsumeInvite(context.Background(), invite.Code)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
}

func TestUnlimitedInviteNeverExhausts(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())
	invite, err := repo.CreateInvite(context.Background(), valueobjects.NewGroupID(), valueobjects.NewUserID(), 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := repo.ConsumeInvite(context.Background(), invite.Code)
		require.NoError(t, err)
	}
}

func TestRevokedInviteCannotBeConsumed(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())
	invite, err := repo.CreateInvite(context.Background(), valueobjects.NewGroupID(), valueobjects.NewUserID(), 0)
	require.NoError(t, err)

	require.NoError(t, repo.RevokeInvite(context.Background(), invite.Code))

	_, err = repo.ConsumeInvite(context.Background(), invite.Code)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
}

func TestGetByCodeNotFound(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())

	_, err := repo.GetByCode(context.Background(), "NOPE1234")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestListInvitesReturnsGroupCodes(t *testing.T) {
	repo := NewInviteRepository(newFakeStore(), zap.NewNop())
	groupID := valueobjects.NewGroupID()
	for i := 0; i < 3; i++ {
		_, err := repo.CreateInvite(context.Background(), groupID, valueobjects.NewUserID(), 0)
		require.NoError(t, err)
	}
	_, err := repo.CreateInvite(context.Background(), valueobjects.NewGroupID(), valueobjects.NewUserID(), 0)
	require.NoError(t, err)

	invites, err := repo.ListInvites(context.Background(), groupID)
	require.NoError(t, err)
	assert.Len(t, invites, 3)
}
