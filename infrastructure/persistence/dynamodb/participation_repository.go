package dynamodb

import (
	"context"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// ParticipationRepository persists ticket/reservation records and spare-seat
// offers under the HANGOUT# partition.
type ParticipationRepository struct {
	store  Store
	logger *zap.Logger
}

// NewParticipationRepository creates a ParticipationRepository
func NewParticipationRepository(store Store, logger *zap.Logger) *ParticipationRepository {
	return &ParticipationRepository{store: store, logger: logger}
}

// SaveParticipation writes a participation record
func (r *ParticipationRepository) SaveParticipation(ctx context.Context, p entities.Participation) error {
	item, err := newParticipationItem(p)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// GetParticipation reads one participation record
func (r *ParticipationRepository) GetParticipation(ctx context.Context, hangoutID valueobjects.HangoutID, id string) (entities.Participation, error) {
	pk, err := keys.HangoutPK(hangoutID)
	if err != nil {
		return entities.Participation{}, err
	}
	sk, err := keys.ParticipationSK(id)
	if err != nil {
		return entities.Participation{}, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: sk})
	if err != nil {
		return entities.Participation{}, err
	}
	if raw == nil {
		return entities.Participation{}, errors.NewNotFoundError("participation")
	}
	var item participationItem
	if err := unmarshalItem(raw, &item); err != nil {
		return entities.Participation{}, err
	}
	return item.toDomain()
}

// ListParticipations reads every participation record of a hangout
func (r *ParticipationRepository) ListParticipations(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.Participation, error) {
	pk, err := keys.HangoutPK(hangoutID)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixParticipation + keys.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	participations := make([]entities.Participation, 0, len(items))
	for _, raw := range items {
		var item participationItem
		if err := unmarshalItem(raw, &item); err != nil {
			return nil, err
		}
		p, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		participations = append(participations, p)
	}
	return participations, nil
}

// DeleteParticipation removes a participation record
func (r *ParticipationRepository) DeleteParticipation(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error {
	pk, err := keys.HangoutPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := keys.ParticipationSK(id)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// SaveOffer writes a spare-seat offer
func (r *ParticipationRepository) SaveOffer(ctx context.Context, o entities.ReservationOffer) error {
	item, err := newOfferItem(o)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// ListOffers reads every spare-seat offer of a hangout
func (r *ParticipationRepository) ListOffers(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.ReservationOffer, error) {
	pk, err := keys.HangoutPK(hangoutID)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixOffer + keys.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	offers := make([]entities.ReservationOffer, 0, len(items))
	for _, raw := range items {
		var item offerItem
		if err := unmarshalItem(raw, &item); err != nil {
			return nil, err
		}
		o, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// DeleteOffer removes a spare-seat offer
func (r *ParticipationRepository) DeleteOffer(ctx context.Context, hangoutID valueobjects.HangoutID, id string) error {
	pk, err := keys.HangoutPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := keys.OfferSK(id)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}
