package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/interfaces/http/rest/middleware"
	"inviter-backend/pkg/errors"
)

// PollHandler serves poll and voting endpoints under a hangout
type PollHandler struct {
	polls  *services.PollService
	logger *zap.Logger
}

// NewPollHandler creates a PollHandler
func NewPollHandler(polls *services.PollService, logger *zap.Logger) *PollHandler {
	return &PollHandler{polls: polls, logger: logger}
}

// CreatePollRequest is the body for POST /hangouts/{hangoutID}/polls
type CreatePollRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	MultiSelect bool     `json:"multiSelect"`
	Options     []string `json:"options" validate:"required,min=2,dive,min=1,max=200"`
}

// CastVoteRequest is the body for PUT /polls/{pollID}/vote
type CastVoteRequest struct {
	OptionID string `json:"optionId" validate:"required,uuid"`
}

// PollOptionResponse is one option with its computed vote count
type PollOptionResponse struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// PollResponse is the wire form of a poll with options and tallies
type PollResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	MultiSelect bool                 `json:"multiSelect"`
	Options     []PollOptionResponse `json:"options"`
}

func toPollResponse(detail entities.PollDetail) PollResponse {
	counts := detail.VoteCounts()
	options := make([]PollOptionResponse, len(detail.Options))
	for i, opt := range detail.Options {
		options[i] = PollOptionResponse{
			ID:    opt.OptionID.String(),
			Text:  opt.Text,
			Votes: counts[opt.OptionID],
		}
	}
	return PollResponse{
		ID:          detail.Poll.PollID.String(),
		Title:       detail.Poll.Title,
		MultiSelect: detail.Poll.MultiSelect,
		Options:     options,
	}
}

// CreatePoll handles POST /hangouts/{hangoutID}/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req CreatePollRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	detail, err := h.polls.CreatePoll(r.Context(), hangoutID, req.Title, req.MultiSelect, req.Options, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPollResponse(detail))
}

// ListPolls handles GET /hangouts/{hangoutID}/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	details, err := h.polls.ListPolls(r.Context(), hangoutID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	polls := make([]PollResponse, len(details))
	for i, d := range details {
		polls[i] = toPollResponse(d)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"polls": polls})
}

// GetPoll handles GET /hangouts/{hangoutID}/polls/{pollID}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	hangoutID, pollID, err := h.pollParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	detail, err := h.polls.GetPoll(r.Context(), hangoutID, pollID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPollResponse(detail))
}

// CastVote handles PUT /hangouts/{hangoutID}/polls/{pollID}/vote
func (h *PollHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, pollID, err := h.pollParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req CastVoteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	optionID, err := valueobjects.NewOptionIDFromString(req.OptionID)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid option id"))
		return
	}
	if err := h.polls.CastVote(r.Context(), hangoutID, pollID, optionID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// RemoveVote handles DELETE /hangouts/{hangoutID}/polls/{pollID}/vote/{optionID}
func (h *PollHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, pollID, err := h.pollParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	optionID, err := valueobjects.NewOptionIDFromString(chi.URLParam(r, "optionID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid option id"))
		return
	}
	if err := h.polls.RemoveVote(r.Context(), hangoutID, pollID, optionID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// DeletePoll handles DELETE /hangouts/{hangoutID}/polls/{pollID}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	hangoutID, pollID, err := h.pollParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.polls.DeletePoll(r.Context(), hangoutID, pollID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *PollHandler) pollParams(r *http.Request) (valueobjects.HangoutID, valueobjects.PollID, error) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		return valueobjects.HangoutID{}, valueobjects.PollID{}, err
	}
	pollID, err := valueobjects.NewPollIDFromString(chi.URLParam(r, "pollID"))
	if err != nil {
		return valueobjects.HangoutID{}, valueobjects.PollID{}, errors.NewValidationError("invalid poll id")
	}
	return hangoutID, pollID, nil
}
