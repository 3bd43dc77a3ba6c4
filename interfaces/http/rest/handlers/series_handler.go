package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

// SeriesHandler serves event series endpoints
type SeriesHandler struct {
	series *services.SeriesService
	logger *zap.Logger
}

// NewSeriesHandler creates a SeriesHandler
func NewSeriesHandler(series *services.SeriesService, logger *zap.Logger) *SeriesHandler {
	return &SeriesHandler{series: series, logger: logger}
}

// CreateSeriesRequest is the body for POST /series
type CreateSeriesRequest struct {
	SeedHangoutID string            `json:"seedHangoutId" validate:"required,uuid"`
	Title         string            `json:"title" validate:"required,min=1,max=200"`
	NextWindow    TimeWindowRequest `json:"nextWindow" validate:"required"`
}

// AddPartRequest is the body for POST /series/{seriesID}/parts
type AddPartRequest struct {
	HangoutID string `json:"hangoutId" validate:"required,uuid"`
}

// SeriesResponse is the wire form of a series with its member hangouts
type SeriesResponse struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Members []HangoutResponse `json:"members,omitempty"`
}

func toSeriesResponse(series *entities.EventSeries, members []*entities.Hangout) SeriesResponse {
	resp := SeriesResponse{
		ID:    series.ID().String(),
		Title: series.Title(),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, toHangoutResponse(m))
	}
	return resp
}

// CreateSeries handles POST /series
func (h *SeriesHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var req CreateSeriesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	seedID, err := valueobjects.NewHangoutIDFromString(req.SeedHangoutID)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid hangout id"))
		return
	}
	window, err := req.NextWindow.toWindow()
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError(err.Error()))
		return
	}
	series, err := h.series.CreateFromHangout(r.Context(), seedID, req.Title, window)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSeriesResponse(series, nil))
}

// GetSeries handles GET /series/{seriesID}
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := h.seriesIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	detail, err := h.series.GetWithParts(r.Context(), seriesID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toSeriesResponse(detail.Series, detail.Members))
}

// AddPart handles POST /series/{seriesID}/parts
func (h *SeriesHandler) AddPart(w http.ResponseWriter, r *http.Request) {
	seriesID, err := h.seriesIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req AddPartRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	hangoutID, err := valueobjects.NewHangoutIDFromString(req.HangoutID)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid hangout id"))
		return
	}
	if err := h.series.AddPart(r.Context(), seriesID, hangoutID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// RemovePart handles DELETE /series/{seriesID}/parts/{hangoutID}
func (h *SeriesHandler) RemovePart(w http.ResponseWriter, r *http.Request) {
	seriesID, err := h.seriesIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.series.RemovePart(r.Context(), seriesID, hangoutID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteSeries handles DELETE /series/{seriesID}
func (h *SeriesHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := h.seriesIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.series.DeleteSeries(r.Context(), seriesID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *SeriesHandler) seriesIDParam(r *http.Request) (valueobjects.SeriesID, error) {
	id, err := valueobjects.NewSeriesIDFromString(chi.URLParam(r, "seriesID"))
	if err != nil {
		return valueobjects.SeriesID{}, errors.NewValidationError("invalid series id")
	}
	return id, nil
}
