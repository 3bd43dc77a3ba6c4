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

// InviteHandler serves invite code endpoints
type InviteHandler struct {
	invites *services.InviteService
	logger  *zap.Logger
}

// NewInviteHandler creates an InviteHandler
func NewInviteHandler(invites *services.InviteService, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{invites: invites, logger: logger}
}

// MintInviteRequest is the body for POST /groups/{groupID}/invites
type MintInviteRequest struct {
	MaxUses int `json:"maxUses" validate:"min=0,max=1000"`
}

// JoinRequest is the body for POST /invites/join
type JoinRequest struct {
	Code string `json:"code" validate:"required,min=1,max=32"`
}

// InviteResponse is the wire form of an invite code
type InviteResponse struct {
	Code      string    `json:"code"`
	GroupID   string    `json:"groupId"`
	MaxUses   int       `json:"maxUses"`
	Uses      int       `json:"uses"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

func toInviteResponse(invite entities.InviteCode) InviteResponse {
	return InviteResponse{
		Code:      invite.Code,
		GroupID:   invite.GroupID.String(),
		MaxUses:   invite.MaxUses,
		Uses:      invite.Uses,
		Revoked:   invite.Revoked,
		CreatedAt: invite.CreatedAt,
	}
}

// MintInvite handles POST /groups/{groupID}/invites
func (h *InviteHandler) MintInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	var req MintInviteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	invite, err := h.invites.MintInvite(r.Context(), groupID, userID, req.MaxUses)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toInviteResponse(invite))
}

// ListInvites handles GET /groups/{groupID}/invites
func (h *InviteHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}
	invites, err := h.invites.ListInvites(r.Context(), groupID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	out := make([]InviteResponse, len(invites))
	for i, invite := range invites {
		out[i] = toInviteResponse(invite)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"invites": out})
}

// Join handles POST /invites/join
func (h *InviteHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	var req JoinRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	membership, err := h.invites.Join(r.Context(), req.Code, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toMembershipResponse(membership))
}

// RevokeInvite handles DELETE /invites/{code}
func (h *InviteHandler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		respondError(w, h.logger, errors.NewValidationError("invite code is required"))
		return
	}
	if err := h.invites.RevokeInvite(r.Context(), code); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
