package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestOfferCarRejectsZeroSeats(t *testing.T) {
	svc := NewCarpoolService(newStubCarpoolRepo(), zap.NewNop())

	_, err := svc.OfferCar(context.Background(), valueobjects.NewHangoutID(), valueobjects.NewUserID(), 0, "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestWithdrawCarIsDriverOnly(t *testing.T) {
	carpool := newStubCarpoolRepo()
	svc := NewCarpoolService(carpool, zap.NewNop())

	hangoutID := valueobjects.NewHangoutID()
	driver := valueobjects.NewUserID()
	car, err := svc.OfferCar(context.Background(), hangoutID, driver, 3, "leaving at 7")
	require.NoError(t, err)

	err = svc.WithdrawCar(context.Background(), hangoutID, car.CarID, valueobjects.NewUserID())
	assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))
	assert.Empty(t, carpool.deleted)

	require.NoError(t, svc.WithdrawCar(context.Background(), hangoutID, car.CarID, driver))
	assert.Equal(t, []string{car.CarID.String()}, carpool.deleted)
}
