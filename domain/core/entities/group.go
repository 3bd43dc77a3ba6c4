package entities

import (
	"errors"
	"strings"
	"time"

	"inviter-backend/domain/core/valueobjects"
)

// GroupVisibility controls who can discover and join a group
type GroupVisibility string

const (
	GroupVisibilityPublic     GroupVisibility = "public"
	GroupVisibilityInviteOnly GroupVisibility = "invite_only"
)

// Group is the canonical group record. Its displayed fields (name, images)
// are denormalized onto memberships and hangout pointers, so every mutation
// here must go through the pointer synchronization path.
type Group struct {
	id                  valueobjects.GroupID
	name                string
	visibility          GroupVisibility
	mainImagePath       string
	backgroundImagePath string
	inviteCode          string
	createdAt           time.Time
	updatedAt           time.Time
}

// NewGroup creates a new group
func NewGroup(name string, visibility GroupVisibility) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("group name cannot be empty")
	}
	if visibility != GroupVisibilityPublic && visibility != GroupVisibilityInviteOnly {
		return nil, errors.New("invalid group visibility")
	}
	now := time.Now().UTC()
	return &Group{
		id:         valueobjects.NewGroupID(),
		name:       name,
		visibility: visibility,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructGroup rebuilds a group from persisted attributes
func ReconstructGroup(
	id valueobjects.GroupID,
	name string,
	visibility GroupVisibility,
	mainImagePath, backgroundImagePath, inviteCode string,
	createdAt, updatedAt time.Time,
) *Group {
	return &Group{
		id:                  id,
		name:                name,
		visibility:          visibility,
		mainImagePath:       mainImagePath,
		backgroundImagePath: backgroundImagePath,
		inviteCode:          inviteCode,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (g *Group) ID() valueobjects.GroupID { return g.id }
func (g *Group) Name() string { return g.name }
func (g *Group) Visibility() GroupVisibility { return g.visibility }
func (g *Group) MainImagePath() string { return g.mainImagePath }
func (g *Group) BackgroundImagePath() string { return g.backgroundImagePath }
func (g *Group) InviteCode() string { return g.inviteCode }
func (g *Group) CreatedAt() time.Time { return g.createdAt }
func (g *Group) UpdatedAt() time.Time { return g.updatedAt }

// Rename changes the group name. Callers must fan the new name out to
// membership rows afterwards.
func (g *Group) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("group name cannot be empty")
	}
	g.name = name
	g.touch()
	return nil
}

// SetVisibility changes who can discover the group
func (g *Group) SetVisibility(v GroupVisibility) error {
	if v != GroupVisibilityPublic && v != GroupVisibilityInviteOnly {
		return errors.New("invalid group visibility")
	}
	g.visibility = v
	g.touch()
	return nil
}

// SetImages updates the group image paths
func (g *Group) SetImages(mainImagePath, backgroundImagePath string) {
	g.mainImagePath = mainImagePath
	g.backgroundImagePath = backgroundImagePath
	g.touch()
}

// AttachInviteCode records the active invite code for the group
func (g *Group) AttachInviteCode(code string) {
	g.inviteCode = code
	g.touch()
}

func (g *Group) touch() {
	g.updatedAt = time.Now().UTC()
}

// GroupRole is a member's role within a group
type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// GroupMembership joins a user to a group. Group name and image are
// denormalized here so listing a user's groups needs no second lookup;
// they are refreshed by the same fan-out that updates hangout pointers.
type GroupMembership struct {
	GroupID        valueobjects.GroupID
	UserID         valueobjects.UserID
	Role           GroupRole
	GroupName      string
	GroupImagePath string
	UserImagePath  string
	JoinedAt       time.Time
}

// NewGroupMembership creates a membership row for a user joining a group
func NewGroupMembership(group *Group, userID valueobjects.UserID, role GroupRole) GroupMembership {
	return GroupMembership{
		GroupID:        group.ID(),
		UserID:         userID,
		Role:           role,
		GroupName:      group.Name(),
		GroupImagePath: group.MainImagePath(),
		JoinedAt:       time.Now().UTC(),
	}
}
