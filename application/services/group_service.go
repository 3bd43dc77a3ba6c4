package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/domain/events"
	"inviter-backend/infrastructure/persistence/dynamodb"
)

// GroupService orchestrates group lifecycle and membership changes
type GroupService struct {
	groups    ports.GroupRepository
	invites   ports.InviteRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewGroupService creates a GroupService
func NewGroupService(
	groups ports.GroupRepository,
	invites ports.InviteRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groups:    groups,
		invites:   invites,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateGroup creates a group with the creator as its first admin and mints
// the group's standing invite code.
func (s *GroupService) CreateGroup(ctx context.Context, name string, visibility entities.GroupVisibility, creator valueobjects.UserID) (*entities.Group, error) {
	group, err := entities.NewGroup(name, visibility)
	if err != nil {
		return nil, err
	}
	if err := s.groups.CreateGroup(ctx, group, creator); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// The standing code is unlimited-use; admins can mint capped ones later.
	invite, err := s.invites.CreateInvite(ctx, group.ID(), creator, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mint invite code: %w", err)
	}
	group.AttachInviteCode(invite.Code)
	if err := s.groups.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to attach invite code: %w", err)
	}

	s.logger.Info("group created",
		zap.String("groupID", group.ID().String()),
		zap.String("creator", creator.String()),
	)
	return group, nil
}

// GetGroup returns one group
func (s *GroupService) GetGroup(ctx context.Context, id valueobjects.GroupID) (*entities.Group, error) {
	return s.groups.GetGroup(ctx, id)
}

// UpdateSettingsInput carries optional group setting changes
type UpdateSettingsInput struct {
	Name                *string
	Visibility          *entities.GroupVisibility
	MainImagePath       *string
	BackgroundImagePath *string
}

// UpdateSettings applies setting changes and fans the denormalized name and
// image out to the group's membership rows.
func (s *GroupService) UpdateSettings(ctx context.Context, id valueobjects.GroupID, input UpdateSettingsInput) (*entities.Group, error) {
	group, err := s.groups.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := group.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Visibility != nil {
		if err := group.SetVisibility(*input.Visibility); err != nil {
			return nil, err
		}
	}
	if input.MainImagePath != nil || input.BackgroundImagePath != nil {
		main := group.MainImagePath()
		background := group.BackgroundImagePath()
		if input.MainImagePath != nil {
			main = *input.MainImagePath
		}
		if input.BackgroundImagePath != nil {
			background = *input.BackgroundImagePath
		}
		group.SetImages(main, background)
	}

	if err := s.groups.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	if err := s.groups.SyncMembershipProjections(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to sync membership projections: %w", err)
	}
	return group, nil
}

// DeleteGroup removes a group and its entire item collection
func (s *GroupService) DeleteGroup(ctx context.Context, id valueobjects.GroupID) error {
	return s.groups.DeleteGroup(ctx, id)
}

// AddMember adds a user to a group directly (admin action, not via invite)
func (s *GroupService) AddMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID, role entities.GroupRole) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	membership := entities.NewGroupMembership(group, userID, role)
	if err := s.groups.AddMember(ctx, membership); err != nil {
		return err
	}
	s.publish(ctx, events.NewGroupMemberAdded(groupID, userID))
	return nil
}

// RemoveMember removes a user from a group
func (s *GroupService) RemoveMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) error {
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.publish(ctx, events.NewGroupMemberRemoved(groupID, userID))
	return nil
}

// ListMembers returns one page of a group's members
func (s *GroupService) ListMembers(ctx context.Context, groupID valueobjects.GroupID, limit int32, token string) (dynamodb.Page[entities.GroupMembership], error) {
	return s.groups.ListMembers(ctx, groupID, limit, token)
}

// ListGroupsForUser returns every group the user belongs to
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID valueobjects.UserID) ([]entities.GroupMembership, error) {
	return s.groups.ListGroupsForUser(ctx, userID)
}

func (s *GroupService) publish(ctx context.Context, evt events.DomainEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("eventType", evt.GetEventType()),
			zap.Error(err),
		)
	}
}
