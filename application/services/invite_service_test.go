package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestJoinRedeemsCodeAndAddsMember(t *testing.T) {
	groups := newStubGroupRepo()
	invites := newStubInviteRepo()
	publisher := &capturingPublisher{}
	svc := NewInviteService(invites, groups, publisher, zap.NewNop())

	group, err := entities.NewGroup("climbing crew", entities.GroupVisibilityInviteOnly)
	require.NoError(t, err)
	groups.groups[group.ID().String()] = group
	invite, err := invites.CreateInvite(context.Background(), group.ID(), valueobjects.NewUserID(), 0)
	require.NoError(t, err)

	joiner := valueobjects.NewUserID()
	membership, err := svc.Join(context.Background(), invite.Code, joiner)
	require.NoError(t, err)

	assert.Equal(t, group.ID(), membership.GroupID)
	assert.Equal(t, entities.GroupRoleMember, membership.Role)
	assert.Equal(t, []string{invite.Code}, invites.consumed)
	assert.Equal(t, []string{"group.member_added"}, publisher.eventTypes())
}

func TestJoinAsExistingMemberDoesNotBurnAUse(t *testing.T) {
	groups := newStubGroupRepo()
	invites := newStubInviteRepo()
	svc := NewInviteService(invites, groups, &capturingPublisher{}, zap.NewNop())

	group, err := entities.NewGroup("climbing crew", entities.GroupVisibilityInviteOnly)
	require.NoError(t, err)
	member := valueobjects.NewUserID()
	require.NoError(t, groups.CreateGroup(context.Background(), group, member))
	invite, err := invites.CreateInvite(context.Background(), group.ID(), member, 1)
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), invite.Code, member)
	assert.True(t, errors.IsConflict(err))
	assert.Empty(t, invites.consumed)
}

func TestJoinWithUnknownCodeFails(t *testing.T) {
	svc := NewInviteService(newStubInviteRepo(), newStubGroupRepo(), &capturingPublisher{}, zap.NewNop())

	_, err := svc.Join(context.Background(), "NOPE1234", valueobjects.NewUserID())
	assert.True(t, errors.IsNotFound(err))
}
