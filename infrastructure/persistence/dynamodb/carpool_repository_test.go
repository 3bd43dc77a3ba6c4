package dynamodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func newTestCar(t *testing.T, repo *CarpoolRepository, seats int) entities.Car {
	t.Helper()
	car := entities.Car{
		HangoutID:      valueobjects.NewHangoutID(),
		CarID:          valueobjects.NewCarID(),
		DriverID:       valueobjects.NewUserID(),
		TotalSeats:     seats,
		AvailableSeats: seats,
		Version:        1,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.CreateCar(context.Background(), car))
	return car
}

func TestClaimSeatDecrementsAndWritesRider(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	car := newTestCar(t, repo, 3)
	rider := valueobjects.NewUserID()

	updated, err := repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, rider, "picking up at 7")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.AvailableSeats)
	assert.Equal(t, int64(2), updated.Version)

	details, err := repo.ListCarpool(context.Background(), car.HangoutID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Len(t, details[0].Riders, 1)
	assert.Equal(t, rider, details[0].Riders[0].UserID)
}

func TestClaimSeatOnFullCarIsConflict(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	car := newTestCar(t, repo, 1)

	_, err := repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, valueobjects.NewUserID(), "")
	require.NoError(t, err)

	_, err = repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, valueobjects.NewUserID(), "")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestClaimSeatTwiceBySameUserIsConflict(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	car := newTestCar(t, repo, 4)
	rider := valueobjects.NewUserID()

	_, err := repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, rider, "")
	require.NoError(t, err)

	_, err = repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, rider, "")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	got, err := repo.GetCar(context.Background(), car.HangoutID, car.CarID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AvailableSeats, "the failed claim must not burn a seat")
}

// racingClaimStore slips a rival rider row in just before the first
// transaction commits, modeling a claim that lands after the caller's read.
type racingClaimStore struct {
	Store
	rival map[string]types.AttributeValue
	once  sync.Once
}

func (s *racingClaimStore) TransactWrite(ctx context.Context, ops []TransactOp) error {
	s.once.Do(func() { _ = s.Store.PutItem(ctx, s.rival, PutCondition{}) })
	return s.Store.TransactWrite(ctx, ops)
}

func TestClaimSeatLosingRiderRaceIsConflict(t *testing.T) {
	inner := newFakeStore()
	repo := NewCarpoolRepository(inner, zap.NewNop())
	car := newTestCar(t, repo, 3)
	rider := valueobjects.NewUserID()

	rivalItem, err := newCarRiderItem(entities.CarRider{
		HangoutID: car.HangoutID,
		CarID:     car.CarID,
		UserID:    rider,
		ClaimedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	rival, err := marshalItem(rivalItem)
	require.NoError(t, err)

	racing := NewCarpoolRepository(&racingClaimStore{Store: inner, rival: rival}, zap.NewNop())
	_, err = racing.ClaimSeat(context.Background(), car.HangoutID, car.CarID, rider, "")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err), "a double-claim is a conflict, not exhausted retries")
	assert.False(t, errors.IsConcurrentModification(err))

	got, err := repo.GetCar(context.Background(), car.HangoutID, car.CarID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AvailableSeats, "the losing claim must not burn a seat")
}

func TestReleaseSeatRestoresCount(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	car := newTestCar(t, repo, 2)
	rider := valueobjects.NewUserID()

	_, err := repo.ClaimSeat(context.Background(), car.HangoutID, car.CarID, rider, "")
	require.NoError(t, err)

	updated, err := repo.ReleaseSeat(context.Background(), car.HangoutID, car.CarID, rider)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.AvailableSeats)

	details, err := repo.ListCarpool(context.Background(), car.HangoutID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Empty(t, details[0].Riders)
}

func TestNeedsRideRoundTrip(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()
	userID := valueobjects.NewUserID()

	require.NoError(t, repo.SetNeedsRide(context.Background(), entities.NeedsRide{
		HangoutID: hangoutID,
		UserID:    userID,
		Note:      "coming from downtown",
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repo.ClearNeedsRide(context.Background(), hangoutID, userID))
}

func TestSetInterestLevelOverwrites(t *testing.T) {
	repo := NewCarpoolRepository(newFakeStore(), zap.NewNop())
	hangoutID := valueobjects.NewHangoutID()
	userID := valueobjects.NewUserID()

	for _, status := range []entities.InterestStatus{entities.InterestInterested, entities.InterestGoing} {
		require.NoError(t, repo.SetInterestLevel(context.Background(), entities.InterestLevel{
			HangoutID: hangoutID,
			UserID:    userID,
			Status:    status,
			UpdatedAt: time.Now().UTC(),
		}))
	}

	got, err := repo.GetInterestLevel(context.Background(), hangoutID, userID)
	require.NoError(t, err)
	assert.Equal(t, entities.InterestGoing, got.Status)
}
