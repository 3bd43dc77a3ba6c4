package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inviter-backend/application/ports"
	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/dynamodb"
	"inviter-backend/pkg/errors"
)

// CarpoolService manages ride offers and seat claims under a hangout
type CarpoolService struct {
	carpool ports.CarpoolRepository
	logger  *zap.Logger
}

// NewCarpoolService creates a CarpoolService
func NewCarpoolService(carpool ports.CarpoolRepository, logger *zap.Logger) *CarpoolService {
	return &CarpoolService{carpool: carpool, logger: logger}
}

// OfferCar creates a new car offer with all seats available
func (s *CarpoolService) OfferCar(ctx context.Context, hangoutID valueobjects.HangoutID, driverID valueobjects.UserID, seats int, notes string) (entities.Car, error) {
	if seats < 1 {
		return entities.Car{}, errors.NewValidationError("a car needs at least one seat")
	}
	car := entities.Car{
		HangoutID:      hangoutID,
		CarID:          valueobjects.NewCarID(),
		DriverID:       driverID,
		TotalSeats:     seats,
		AvailableSeats: seats,
		Notes:          notes,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.carpool.CreateCar(ctx, car); err != nil {
		return entities.Car{}, fmt.Errorf("failed to offer car: %w", err)
	}
	return car, nil
}

// ClaimSeat claims one seat in a car for the user
func (s *CarpoolService) ClaimSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID, note string) (entities.Car, error) {
	return s.carpool.ClaimSeat(ctx, hangoutID, carID, userID, note)
}

// ReleaseSeat gives the user's seat back
func (s *CarpoolService) ReleaseSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID) (entities.Car, error) {
	return s.carpool.ReleaseSeat(ctx, hangoutID, carID, userID)
}

// WithdrawCar removes a car offer. Only the driver may withdraw it.
func (s *CarpoolService) WithdrawCar(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, callerID valueobjects.UserID) error {
	car, err := s.carpool.GetCar(ctx, hangoutID, carID)
	if err != nil {
		return err
	}
	if !car.DriverID.Equals(callerID) {
		return errors.NewForbiddenError("only the driver can withdraw a car")
	}
	return s.carpool.DeleteCar(ctx, hangoutID, carID)
}

// ListCarpool returns every car with its riders for a hangout
func (s *CarpoolService) ListCarpool(ctx context.Context, hangoutID valueobjects.HangoutID) ([]dynamodb.CarDetail, error) {
	return s.carpool.ListCarpool(ctx, hangoutID)
}

// RequestRide marks the user as looking for a seat
func (s *CarpoolService) RequestRide(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID, note string) error {
	return s.carpool.SetNeedsRide(ctx, entities.NeedsRide{
		HangoutID: hangoutID,
		UserID:    userID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	})
}

// CancelRideRequest clears the user's ride request
func (s *CarpoolService) CancelRideRequest(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) error {
	return s.carpool.ClearNeedsRide(ctx, hangoutID, userID)
}
