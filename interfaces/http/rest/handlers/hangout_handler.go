package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/dynamodb"
	"inviter-backend/interfaces/http/rest/middleware"
	"inviter-backend/pkg/errors"
)

// HangoutHandler serves hangout, feed and attendance endpoints
type HangoutHandler struct {
	hangouts *services.HangoutService
	logger   *zap.Logger
}

// NewHangoutHandler creates a HangoutHandler
func NewHangoutHandler(hangouts *services.HangoutService, logger *zap.Logger) *HangoutHandler {
	return &HangoutHandler{hangouts: hangouts, logger: logger}
}

// TimeWindowRequest carries a start/end pair with optional fuzziness
type TimeWindowRequest struct {
	Start       int64  `json:"start" validate:"required"`
	End         int64  `json:"end" validate:"required"`
	Granularity string `json:"granularity,omitempty" validate:"omitempty,oneof=exact morning evening day weekend"`
}

func (t TimeWindowRequest) toWindow() (valueobjects.TimeWindow, error) {
	start := time.Unix(t.Start, 0).UTC()
	end := time.Unix(t.End, 0).UTC()
	if t.Granularity == "" || t.Granularity == string(valueobjects.GranularityExact) {
		return valueobjects.NewExactTimeWindow(start, end)
	}
	return valueobjects.NewFuzzyTimeWindow(start, end, valueobjects.PeriodGranularity(t.Granularity))
}

// TicketInfoRequest mirrors entities.TicketInfo on the wire
type TicketInfoRequest struct {
	Required   bool   `json:"required"`
	Link       string `json:"link,omitempty" validate:"omitempty,url"`
	PriceCents int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
	Currency   string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func (t TicketInfoRequest) toTicketInfo() entities.TicketInfo {
	return entities.TicketInfo{
		Required:   t.Required,
		Link:       t.Link,
		PriceCents: t.PriceCents,
		Currency:   t.Currency,
	}
}

// CreateHangoutRequest is the body for POST /hangouts
type CreateHangoutRequest struct {
	Title          string             `json:"title" validate:"required,min=1,max=200"`
	Description    string             `json:"description,omitempty"`
	Window         TimeWindowRequest  `json:"window" validate:"required"`
	Location       string             `json:"location,omitempty"`
	Visibility     string             `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	GroupIDs       []string           `json:"groupIds" validate:"required,min=1,dive,uuid"`
	MainImagePath  string             `json:"mainImagePath,omitempty"`
	TicketInfo     *TicketInfoRequest `json:"ticketInfo,omitempty"`
	ExternalSource string             `json:"externalSource,omitempty"`
}

// UpdateHangoutRequest is the body for PATCH /hangouts/{hangoutID}
type UpdateHangoutRequest struct {
	Title         *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string            `json:"description,omitempty"`
	Window        *TimeWindowRequest `json:"window,omitempty"`
	Location      *string            `json:"location,omitempty"`
	Visibility    *string            `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	MainImagePath *string            `json:"mainImagePath,omitempty"`
	TicketInfo    *TicketInfoRequest `json:"ticketInfo,omitempty"`
}

// SetInterestRequest is the body for PUT /hangouts/{hangoutID}/interest
type SetInterestRequest struct {
	Status string `json:"status" validate:"required,oneof=going interested not_going"`
}

// HangoutResponse is the wire form of a hangout
type HangoutResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Start            int64    `json:"start"`
	End              int64    `json:"end"`
	Granularity      string   `json:"granularity"`
	Location         string   `json:"location,omitempty"`
	Visibility       string   `json:"visibility"`
	GroupIDs         []string `json:"groupIds"`
	SeriesID         string   `json:"seriesId,omitempty"`
	MainImagePath    string   `json:"mainImagePath,omitempty"`
	ParticipantCount int      `json:"participantCount"`
}

func toHangoutResponse(h *entities.Hangout) HangoutResponse {
	groupIDs := make([]string, len(h.GroupIDs()))
	for i, g := range h.GroupIDs() {
		groupIDs[i] = g.String()
	}
	resp := HangoutResponse{
		ID:               h.ID().String(),
		Title:            h.Title(),
		Description:      h.Description(),
		Start:            h.Window().Start().Unix(),
		End:              h.Window().End().Unix(),
		Granularity:      string(h.Window().Granularity()),
		Location:         h.Location(),
		Visibility:       string(h.Visibility()),
		GroupIDs:         groupIDs,
		MainImagePath:    h.MainImagePath(),
		ParticipantCount: h.ParticipantCount(),
	}
	if h.InSeries() {
		resp.SeriesID = h.SeriesID().String()
	}
	return resp
}

// FeedItemResponse is one entry of a group feed
type FeedItemResponse struct {
	Kind             string `json:"kind"`
	ID               string `json:"id"`
	Title            string `json:"title"`
	Start            int64  `json:"start"`
	End              int64  `json:"end,omitempty"`
	Location         string `json:"location,omitempty"`
	SeriesID         string `json:"seriesId,omitempty"`
	ParticipantCount int    `json:"participantCount,omitempty"`
}

func toFeedItemResponse(item dynamodb.FeedItem) FeedItemResponse {
	if item.Series != nil {
		return FeedItemResponse{
			Kind:  "series",
			ID:    item.Series.SeriesID.String(),
			Title: item.Series.Title,
			Start: item.Series.StartTime.Unix(),
		}
	}
	p := item.Hangout
	resp := FeedItemResponse{
		Kind:             "hangout",
		ID:               p.HangoutID.String(),
		Title:            p.Title,
		Start:            p.Window.Start().Unix(),
		End:              p.Window.End().Unix(),
		Location:         p.Location,
		ParticipantCount: p.ParticipantCount,
	}
	if !p.SeriesID.IsZero() {
		resp.SeriesID = p.SeriesID.String()
	}
	return resp
}

// CreateHangout handles POST /hangouts
func (h *HangoutHandler) CreateHangout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	var req CreateHangoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	window, err := req.Window.toWindow()
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError(err.Error()))
		return
	}
	groupIDs := make([]valueobjects.GroupID, len(req.GroupIDs))
	for i, raw := range req.GroupIDs {
		groupIDs[i], err = valueobjects.NewGroupIDFromString(raw)
		if err != nil {
			respondError(w, h.logger, errors.NewValidationError("invalid group id"))
			return
		}
	}

	input := services.CreateHangoutInput{
		Title:          req.Title,
		Description:    req.Description,
		Window:         window,
		Location:       req.Location,
		Visibility:     entities.HangoutVisibilityPublic,
		GroupIDs:       groupIDs,
		MainImagePath:  req.MainImagePath,
		ExternalSource: req.ExternalSource,
		CreatedBy:      userID,
	}
	if req.Visibility != "" {
		input.Visibility = entities.HangoutVisibility(req.Visibility)
	}
	if req.TicketInfo != nil {
		input.TicketInfo = req.TicketInfo.toTicketInfo()
	}

	created, err := h.hangouts.CreateHangout(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toHangoutResponse(created))
}

// GetHangout handles GET /hangouts/{hangoutID}
func (h *HangoutHandler) GetHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	detail, err := h.hangouts.GetHangoutDetail(r.Context(), hangoutID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toDetailResponse(detail))
}

// UpdateHangout handles PATCH /hangouts/{hangoutID}
func (h *HangoutHandler) UpdateHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req UpdateHangoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	input := services.UpdateHangoutInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		MainImagePath: req.MainImagePath,
	}
	if req.Window != nil {
		window, err := req.Window.toWindow()
		if err != nil {
			respondError(w, h.logger, errors.NewValidationError(err.Error()))
			return
		}
		input.Window = &window
	}
	if req.Visibility != nil {
		v := entities.HangoutVisibility(*req.Visibility)
		input.Visibility = &v
	}
	if req.TicketInfo != nil {
		info := req.TicketInfo.toTicketInfo()
		input.TicketInfo = &info
	}

	updated, err := h.hangouts.UpdateHangout(r.Context(), hangoutID, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toHangoutResponse(updated))
}

// DeleteHangout handles DELETE /hangouts/{hangoutID}
func (h *HangoutHandler) DeleteHangout(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.hangouts.DeleteHangout(r.Context(), hangoutID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetInterest handles PUT /hangouts/{hangoutID}/interest
func (h *HangoutHandler) SetInterest(w http.ResponseWriter, r *http.Request) {
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
	var req SetInterestRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.hangouts.SetInterest(r.Context(), hangoutID, userID, entities.InterestStatus(req.Status)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Feed handles GET /groups/{groupID}/feed?scope=upcoming|past|in_progress
func (h *HangoutHandler) Feed(w http.ResponseWriter, r *http.Request) {
	groupID, err := valueobjects.NewGroupIDFromString(chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid group id"))
		return
	}

	scope := r.URL.Query().Get("scope")
	cursor := r.URL.Query().Get("cursor")
	limit := pageLimit(r, 25)

	switch scope {
	case "", "upcoming":
		page, err := h.hangouts.UpcomingFeed(r.Context(), groupID, limit, cursor)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		h.respondFeedPage(w, page)
	case "past":
		page, err := h.hangouts.PastFeed(r.Context(), groupID, limit, cursor)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		h.respondFeedPage(w, page)
	case "in_progress":
		pointers, err := h.hangouts.InProgress(r.Context(), groupID)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		items := make([]FeedItemResponse, len(pointers))
		for i := range pointers {
			items[i] = toFeedItemResponse(dynamodb.FeedItem{Hangout: &pointers[i]})
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	default:
		respondError(w, h.logger, errors.NewValidationError("unknown feed scope"))
	}
}

func (h *HangoutHandler) respondFeedPage(w http.ResponseWriter, page dynamodb.Page[dynamodb.FeedItem]) {
	items := make([]FeedItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = toFeedItemResponse(item)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":      items,
		"nextCursor": page.NextToken,
	})
}

func hangoutIDParam(r *http.Request) (valueobjects.HangoutID, error) {
	id, err := valueobjects.NewHangoutIDFromString(chi.URLParam(r, "hangoutID"))
	if err != nil {
		return valueobjects.HangoutID{}, errors.NewValidationError("invalid hangout id")
	}
	return id, nil
}
