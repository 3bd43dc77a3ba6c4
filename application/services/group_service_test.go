package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
)

func TestCreateGroupAttachesStandingInvite(t *testing.T) {
	groups := newStubGroupRepo()
	invites := newStubInviteRepo()
	svc := NewGroupService(groups, invites, &capturingPublisher{}, zap.NewNop())

	creator := valueobjects.NewUserID()
	group, err := svc.CreateGroup(context.Background(), "book club", entities.GroupVisibilityPublic, creator)
	require.NoError(t, err)

	assert.Equal(t, "TESTCODE", group.InviteCode())
	// creator seeded as admin
	membership, err := groups.GetMember(context.Background(), group.ID(), creator)
	require.NoError(t, err)
	assert.Equal(t, entities.GroupRoleAdmin, membership.Role)
	// the standing code is unlimited
	invite, ok := invites.invites["TESTCODE"]
	require.True(t, ok)
	assert.Equal(t, 0, invite.MaxUses)
}

func TestAddMemberPublishesEvent(t *testing.T) {
	groups := newStubGroupRepo()
	publisher := &capturingPublisher{}
	svc := NewGroupService(groups, newStubInviteRepo(), publisher, zap.NewNop())

	group, err := entities.NewGroup("book club", entities.GroupVisibilityPublic)
	require.NoError(t, err)
	groups.groups[group.ID().String()] = group

	userID := valueobjects.NewUserID()
	require.NoError(t, svc.AddMember(context.Background(), group.ID(), userID, entities.GroupRoleMember))
	assert.Equal(t, []string{"group.member_added"}, publisher.eventTypes())

	membership, err := groups.GetMember(context.Background(), group.ID(), userID)
	require.NoError(t, err)
	assert.Equal(t, group.Name(), membership.GroupName)
}

func TestEventPublishFailureDoesNotFailTheWrite(t *testing.T) {
	groups := newStubGroupRepo()
	publisher := &capturingPublisher{fail: assert.AnError}
	svc := NewGroupService(groups, newStubInviteRepo(), publisher, zap.NewNop())

	group, err := entities.NewGroup("book club", entities.GroupVisibilityPublic)
	require.NoError(t, err)
	groups.groups[group.ID().String()] = group

	err = svc.AddMember(context.Background(), group.ID(), valueobjects.NewUserID(), entities.GroupRoleMember)
	assert.NoError(t, err)
}
