package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/domain/events"
	"inviter-backend/pkg/errors"
)

// InviteService mints and redeems group invite codes
type InviteService struct {
	invites   ports.InviteRepository
	groups    ports.GroupRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewInviteService creates an InviteService
func NewInviteService(
	invites ports.InviteRepository,
	groups ports.GroupRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *InviteService {
	return &InviteService{
		invites:   invites,
		groups:    groups,
		publisher: publisher,
		logger:    logger,
	}
}

// MintInvite creates a new invite code for a group. maxUses of zero means
// unlimited.
func (s *InviteService) MintInvite(ctx context.Context, groupID valueobjects.GroupID, createdBy valueobjects.UserID, maxUses int) (entities.InviteCode, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return entities.InviteCode{}, err
	}
	return s.invites.CreateInvite(ctx, groupID, createdBy, maxUses)
}

// Join redeems an invite code for a user. The membership existence check
// runs before the code is consumed so a re-join does not burn a use.
func (s *InviteService) Join(ctx context.Context, code string, userID valueobjects.UserID) (entities.GroupMembership, error) {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	if _, err := s.groups.GetMember(ctx, invite.GroupID, userID); err == nil {
		return entities.GroupMembership{}, errors.NewConflictError("user is already a member of this group")
	} else if !errors.IsNotFound(err) {
		return entities.GroupMembership{}, err
	}

	group, err := s.groups.GetGroup(ctx, invite.GroupID)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	if _, err := s.invites.ConsumeInvite(ctx, code); err != nil {
		return entities.GroupMembership{}, err
	}

	membership := entities.NewGroupMembership(group, userID, entities.GroupRoleMember)
	if err := s.groups.AddMember(ctx, membership); err != nil {
		return entities.GroupMembership{}, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("invite redeemed",
		zap.String("groupID", invite.GroupID.String()),
		zap.String("userID", userID.String()),
	)
	if err := s.publisher.Publish(ctx, events.NewGroupMemberAdded(invite.GroupID, userID)); err != nil {
		s.logger.Warn("failed to publish event", zap.Error(err))
	}
	return membership, nil
}

// RevokeInvite disables an invite code
func (s *InviteService) RevokeInvite(ctx context.Context, code string) error {
	return s.invites.RevokeInvite(ctx, code)
}

// ListInvites returns a group's invite codes
func (s *InviteService) ListInvites(ctx context.Context, groupID valueobjects.GroupID) ([]entities.InviteCode, error) {
	return s.invites.ListInvites(ctx, groupID)
}
