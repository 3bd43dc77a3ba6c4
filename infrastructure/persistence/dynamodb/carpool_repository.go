package dynamodb

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// CarDetail is a car with its claimed riders
type CarDetail struct {
	Car    entities.Car
	Riders []entities.CarRider
}

// CarpoolRepository persists cars, riders and ride requests under their
// hangout's partition. Seat counts are guarded by the car's version: a
// claim re-reads and retries on contention rather than overselling a seat.
type CarpoolRepository struct {
	store  Store
	logger *zap.Logger
}

// NewCarpoolRepository creates a CarpoolRepository
func NewCarpoolRepository(store Store, logger *zap.Logger) *CarpoolRepository {
	return &CarpoolRepository{store: store, logger: logger}
}

// CreateCar writes a new car offer
func (r *CarpoolRepository) CreateCar(ctx context.Context, car entities.Car) error {
	item, err := newCarItem(car)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	err = r.store.PutItem(ctx, raw, PutCondition{IfAbsent: true})
	if err == ErrConditionFailed {
		return errors.NewConflictError("car already exists")
	}
	return err
}

// GetCar reads one car row
func (r *CarpoolRepository) GetCar(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID) (entities.Car, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return entities.Car{}, err
	}
	sk, err := keys.CarSK(carID)
	if err != nil {
		return entities.Car{}, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: sk})
	if err != nil {
		return entities.Car{}, err
	}
	if raw == nil {
		return entities.Car{}, errors.NewNotFoundError("car")
	}
	var item carItem
	if err := unmarshalItem(raw, &item); err != nil {
		return entities.Car{}, err
	}
	return item.toDomain()
}

// ClaimSeat decrements the car's available seats and writes the rider row in
// one transaction, conditioned on the version the seat count was read at. A
// full car is a conflict; losing the version race retries up to the
// optimistic bound.
func (r *CarpoolRepository) ClaimSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID, note string) (entities.Car, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return entities.Car{}, err
	}
	riderSK, err := keys.CarRiderSK(carID, userID)
	if err != nil {
		return entities.Car{}, err
	}
	riderKey := Key{PK: pk, SK: riderSK}

	return updateWithRetry(ctx, "car",
		func(ctx context.Context) (entities.Car, error) {
			// Re-checked on every attempt: a double-claim that lands between
			// attempts surfaces as a conflict, not as exhausted retries.
			existing, err := r.store.GetItem(ctx, riderKey)
			if err != nil {
				return entities.Car{}, err
			}
			if existing != nil {
				return entities.Car{}, errors.NewConflictError("user already claimed a seat in this car")
			}
			return r.GetCar(ctx, hangoutID, carID)
		},
		func(car entities.Car) (entities.Car, error) {
			if car.AvailableSeats <= 0 {
				return entities.Car{}, errors.NewConflictError("no seats available")
			}
			car.AvailableSeats--
			car.Version++
			return car, nil
		},
		func(ctx context.Context, car entities.Car) error {
			rider := entities.CarRider{
				HangoutID: hangoutID,
				CarID:     carID,
				UserID:    userID,
				Note:      note,
				ClaimedAt: time.Now().UTC(),
			}
			return r.writeSeatMove(ctx, car, &rider, nil)
		},
	)
}

// ReleaseSeat gives a claimed seat back and deletes the rider row
func (r *CarpoolRepository) ReleaseSeat(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID, userID valueobjects.UserID) (entities.Car, error) {
	return updateWithRetry(ctx, "car",
		func(ctx context.Context) (entities.Car, error) {
			return r.GetCar(ctx, hangoutID, carID)
		},
		func(car entities.Car) (entities.Car, error) {
			if car.AvailableSeats >= car.TotalSeats {
				return entities.Car{}, errors.NewConflictError("no seat is claimed")
			}
			car.AvailableSeats++
			car.Version++
			return car, nil
		},
		func(ctx context.Context, car entities.Car) error {
			sk, err := keys.CarRiderSK(carID, userID)
			if err != nil {
				return err
			}
			pk, err := keys.EventPK(hangoutID)
			if err != nil {
				return err
			}
			riderKey := Key{PK: pk, SK: sk}
			return r.writeSeatMove(ctx, car, nil, &riderKey)
		},
	)
}

// writeSeatMove commits a seat-count change together with the rider row it
// accounts for, conditioned on the version the count was derived from.
func (r *CarpoolRepository) writeSeatMove(ctx context.Context, car entities.Car, addRider *entities.CarRider, dropRider *Key) error {
	item, err := newCarItem(car)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	previous := car.Version - 1

	ops := []TransactOp{
		{Put: &TransactPut{Item: raw, Condition: PutCondition{IfVersionEquals: &previous}}},
	}
	if addRider != nil {
		riderItem, err := newCarRiderItem(*addRider)
		if err != nil {
			return err
		}
		rawRider, err := marshalItem(riderItem)
		if err != nil {
			return err
		}
		ops = append(ops, TransactOp{Put: &TransactPut{Item: rawRider, Condition: PutCondition{IfAbsent: true}}})
	}
	if dropRider != nil {
		ops = append(ops, TransactOp{Delete: &TransactDelete{Key: *dropRider}})
	}
	return r.store.TransactWrite(ctx, ops)
}

// DeleteCar removes a car and its rider rows
func (r *CarpoolRepository) DeleteCar(ctx context.Context, hangoutID valueobjects.HangoutID, carID valueobjects.CarID) error {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return err
	}
	prefix, err := keys.CarSK(carID)
	if err != nil {
		return err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     prefix,
	})
	if err != nil {
		return err
	}
	toDelete := make([]Key, 0, len(items))
	for _, item := range items {
		toDelete = append(toDelete, Key{PK: stringAttr(item, attrPK), SK: stringAttr(item, attrSK)})
	}
	return r.store.BatchWriteItems(ctx, nil, toDelete)
}

// ListCarpool reads every car of a hangout with its riders
func (r *CarpoolRepository) ListCarpool(ctx context.Context, hangoutID valueobjects.HangoutID) ([]CarDetail, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixCar + keys.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	var details []CarDetail
	index := make(map[valueobjects.CarID]int)
	at := func(carID valueobjects.CarID) *CarDetail {
		if i, ok := index[carID]; ok {
			return &details[i]
		}
		details = append(details, CarDetail{})
		index[carID] = len(details) - 1
		return &details[len(details)-1]
	}

	for _, raw := range items {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		switch v := decoded.Value.(type) {
		case entities.Car:
			at(v.CarID).Car = v
		case entities.CarRider:
			d := at(v.CarID)
			d.Riders = append(d.Riders, v)
		default:
			return nil, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}
	return details, nil
}

// SetNeedsRide marks a user as looking for a seat
func (r *CarpoolRepository) SetNeedsRide(ctx context.Context, n entities.NeedsRide) error {
	item, err := newNeedsRideItem(n)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// ClearNeedsRide removes a user's ride request
func (r *CarpoolRepository) ClearNeedsRide(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) error {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := keys.NeedsRideSK(userID)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// SetInterestLevel records a user's attendance signal
func (r *CarpoolRepository) SetInterestLevel(ctx context.Context, level entities.InterestLevel) error {
	item, err := newInterestLevelItem(level)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// GetInterestLevel reads one user's attendance signal, or NotFound
func (r *CarpoolRepository) GetInterestLevel(ctx context.Context, hangoutID valueobjects.HangoutID, userID valueobjects.UserID) (entities.InterestLevel, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return entities.InterestLevel{}, err
	}
	sk, err := keys.InterestLevelSK(userID)
	if err != nil {
		return entities.InterestLevel{}, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: sk})
	if err != nil {
		return entities.InterestLevel{}, err
	}
	if raw == nil {
		return entities.InterestLevel{}, errors.NewNotFoundError("interest level")
	}
	var item interestLevelItem
	if err := unmarshalItem(raw, &item); err != nil {
		return entities.InterestLevel{}, err
	}
	return item.toDomain()
}

// SetAttribute writes a free-form hangout attribute
func (r *CarpoolRepository) SetAttribute(ctx context.Context, a entities.HangoutAttribute) error {
	item, err := newAttributeItem(a)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// DeleteAttribute removes a hangout attribute
func (r *CarpoolRepository) DeleteAttribute(ctx context.Context, hangoutID valueobjects.HangoutID, attributeID string) error {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := keys.AttributeSK(attributeID)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}
