package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/interfaces/http/rest/middleware"
	"inviter-backend/pkg/errors"
)

// GroupHandler serves group and membership endpoints
type GroupHandler struct {
	groups *services.GroupService
	logger *zap.Logger
}

// NewGroupHandler creates a GroupHandler
func NewGroupHandler(groups *services.GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, logger: logger}
}

// CreateGroupRequest is the body for POST /groups
type CreateGroupRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public invite_only"`
}

// UpdateGroupRequest is the body for PATCH /groups/{groupID}
type UpdateGroupRequest struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Visibility          *string `json:"visibility,omitempty" validate:"omitempty,oneof=public invite_only"`
	MainImagePath       *string `json:"mainImagePath,omitempty"`
	BackgroundImagePath *string `json:"backgroundImagePath,omitempty"`
}

// GroupResponse is the wire form of a group
type GroupResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Visibility          string    `json:"visibility"`
	MainImagePath       string    `json:"mainImagePath,omitempty"`
	BackgroundImagePath string    `json:"backgroundImagePath,omitempty"`
	InviteCode          string    `json:"inviteCode,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// MembershipResponse is the wire form of a group membership
type MembershipResponse struct {
	GroupID        string    `json:"groupId"`
	UserID         string    `json:"userId"`
	Role           string    `json:"role"`
	GroupName      string    `json:"groupName"`
	GroupImagePath string    `json:"groupImagePath,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
}

func toGroupResponse(g *entities.Group) GroupResponse {
	return GroupResponse{
		ID:                  g.ID().String(),
		Name:                g.Name(),
		Visibility:          string(g.Visibility()),
		MainImagePath:       g.MainImagePath(),
		BackgroundImagePath: g.BackgroundImagePath(),
		InviteCode:          g.InviteCode(),
		CreatedAt:           g.CreatedAt(),
	}
}

func toMembershipResponse(m entities.GroupMembership) MembershipResponse {
	return MembershipResponse{
		GroupID:        m.GroupID.String(),
		UserID:         m.UserID.String(),
		Role:           string(m.Role),
		GroupName:      m.GroupName,
		GroupImagePath: m.GroupImagePath,
		JoinedAt:       m.JoinedAt,
	}
}

// CreateGroup handles POST /groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	var req CreateGroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	visibility := entities.GroupVisibilityInviteOnly
	if req.Visibility != "" {
		visibility = entities.GroupVisibility(req.Visibility)
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, visibility, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupResponse(group))
}

// GetGroup handles GET /groups/{groupID}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// UpdateGroup handles PATCH /groups/{groupID}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	var req UpdateGroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	input := services.UpdateSettingsInput{
		Name:                req.Name,
		MainImagePath:       req.MainImagePath,
		BackgroundImagePath: req.BackgroundImagePath,
	}
	if req.Visibility != nil {
		v := entities.GroupVisibility(*req.Visibility)
		input.Visibility = &v
	}

	group, err := h.groups.UpdateSettings(r.Context(), groupID, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// DeleteGroup handles DELETE /groups/{groupID}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	if err := h.groups.DeleteGroup(r.Context(), groupID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListMembers handles GET /groups/{groupID}/members
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	page, err := h.groups.ListMembers(r.Context(), groupID, pageLimit(r, 50), r.URL.Query().Get("cursor"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	members := make([]MembershipResponse, len(page.Items))
	for i, m := range page.Items {
		members[i] = toMembershipResponse(m)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"members":    members,
		"nextCursor": page.NextToken,
	})
}

// RemoveMember handles DELETE /groups/{groupID}/members/{userID}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	userID, err := valueobjects.NewUserIDFromString(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid user id"))
		return
	}
	if err := h.groups.RemoveMember(r.Context(), groupID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListMyGroups handles GET /groups
func (h *GroupHandler) ListMyGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	memberships, err := h.groups.ListGroupsForUser(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	out := make([]MembershipResponse, len(memberships))
	for i, m := range memberships {
		out[i] = toMembershipResponse(m)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": out})
}
