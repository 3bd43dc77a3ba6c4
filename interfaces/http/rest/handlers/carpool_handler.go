package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"inviter-backend/application/services"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/dynamodb"
	"inviter-backend/interfaces/http/rest/middleware"
	"inviter-backend/pkg/errors"
)

// CarpoolHandler serves car offer and seat claim endpoints under a hangout
type CarpoolHandler struct {
	carpool *services.CarpoolService
	logger  *zap.Logger
}

// NewCarpoolHandler creates a CarpoolHandler
func NewCarpoolHandler(carpool *services.CarpoolService, logger *zap.Logger) *CarpoolHandler {
	return &CarpoolHandler{carpool: carpool, logger: logger}
}

// OfferCarRequest is the body for POST /hangouts/{hangoutID}/carpool
type OfferCarRequest struct {
	Seats int    `json:"seats" validate:"required,min=1,max=8"`
	Notes string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ClaimSeatRequest is the body for POST .../carpool/{carID}/claim
type ClaimSeatRequest struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=200"`
}

// NeedsRideRequest is the body for PUT /hangouts/{hangoutID}/needs-ride
type NeedsRideRequest struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=200"`
}

// RiderResponse is one claimed seat
type RiderResponse struct {
	UserID string `json:"userId"`
	Note   string `json:"note,omitempty"`
}

// CarResponse is a car offer with its riders
type CarResponse struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driverId"`
	TotalSeats     int             `json:"totalSeats"`
	AvailableSeats int             `json:"availableSeats"`
	Notes          string          `json:"notes,omitempty"`
	Riders         []RiderResponse `json:"riders"`
}

func toCarResponse(detail dynamodb.CarDetail) CarResponse {
	riders := make([]RiderResponse, len(detail.Riders))
	for i, rider := range detail.Riders {
		riders[i] = RiderResponse{UserID: rider.UserID.String(), Note: rider.Note}
	}
	return CarResponse{
		ID:             detail.Car.CarID.String(),
		DriverID:       detail.Car.DriverID.String(),
		TotalSeats:     detail.Car.TotalSeats,
		AvailableSeats: detail.Car.AvailableSeats,
		Notes:          detail.Car.Notes,
		Riders:         riders,
	}
}

// OfferCar handles POST /hangouts/{hangoutID}/carpool
func (h *CarpoolHandler) OfferCar(w http.ResponseWriter, r *http.Request) {
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
	var req OfferCarRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	car, err := h.carpool.OfferCar(r.Context(), hangoutID, userID, req.Seats, req.Notes)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCarResponse(dynamodb.CarDetail{Car: car}))
}

// ListCarpool handles GET /hangouts/{hangoutID}/carpool
func (h *CarpoolHandler) ListCarpool(w http.ResponseWriter, r *http.Request) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	details, err := h.carpool.ListCarpool(r.Context(), hangoutID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	cars := make([]CarResponse, len(details))
	for i, d := range details {
		cars[i] = toCarResponse(d)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

// ClaimSeat handles POST /hangouts/{hangoutID}/carpool/{carID}/claim
func (h *CarpoolHandler) ClaimSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, carID, err := h.carParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var req ClaimSeatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	car, err := h.carpool.ClaimSeat(r.Context(), hangoutID, carID, userID, req.Note)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toCarResponse(dynamodb.CarDetail{Car: car}))
}

// ReleaseSeat handles DELETE /hangouts/{hangoutID}/carpool/{carID}/claim
func (h *CarpoolHandler) ReleaseSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, carID, err := h.carParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	car, err := h.carpool.ReleaseSeat(r.Context(), hangoutID, carID, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toCarResponse(dynamodb.CarDetail{Car: car}))
}

// WithdrawCar handles DELETE /hangouts/{hangoutID}/carpool/{carID}
func (h *CarpoolHandler) WithdrawCar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, h.logger, errors.NewUnauthorizedError("not authenticated"))
		return
	}
	hangoutID, carID, err := h.carParams(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.carpool.WithdrawCar(r.Context(), hangoutID, carID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// RequestRide handles PUT /hangouts/{hangoutID}/needs-ride
func (h *CarpoolHandler) RequestRide(w http.ResponseWriter, r *http.Request) {
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
	var req NeedsRideRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.carpool.RequestRide(r.Context(), hangoutID, userID, req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// CancelRideRequest handles DELETE /hangouts/{hangoutID}/needs-ride
func (h *CarpoolHandler) CancelRideRequest(w http.ResponseWriter, r *http.Request) {
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
	if err := h.carpool.CancelRideRequest(r.Context(), hangoutID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CarpoolHandler) carParams(r *http.Request) (valueobjects.HangoutID, valueobjects.CarID, error) {
	hangoutID, err := hangoutIDParam(r)
	if err != nil {
		return valueobjects.HangoutID{}, valueobjects.CarID{}, err
	}
	carID, err := valueobjects.NewCarIDFromString(chi.URLParam(r, "carID"))
	if err != nil {
		return valueobjects.HangoutID{}, valueobjects.CarID{}, errors.NewValidationError("invalid car id")
	}
	return hangoutID, carID, nil
}
