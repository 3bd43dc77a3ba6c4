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

// SeriesRepository persists event series. Series membership lives on both
// sides of the link (series.hangoutIDs and hangout.seriesID), so every
// operation that moves the link writes both sides in one transaction; there
// is no state where one side believes in the series and the other does not.
type SeriesRepository struct {
	store   Store
	pointer *PointerSync
	logger  *zap.Logger
}

// NewSeriesRepository creates a SeriesRepository
func NewSeriesRepository(store Store, pointer *PointerSync, logger *zap.Logger) *SeriesRepository {
	return &SeriesRepository{store: store, pointer: pointer, logger: logger}
}

// CreateSeries writes, in one transaction: the series metadata row, the
// series link on the canonical row of every member hangout, the series
// badge on every member's group pointers, and a series pointer in every
// associated group. Either the series exists everywhere a reader can look
// or it does not exist at all.
func (r *SeriesRepository) CreateSeries(ctx context.Context, series *entities.EventSeries, members []*entities.Hangout, startTime time.Time) error {
	seriesRow, err := newSeriesItem(series)
	if err != nil {
		return err
	}
	rawSeries, err := marshalItem(seriesRow)
	if err != nil {
		return err
	}

	ops := []TransactOp{
		{Put: &TransactPut{Item: rawSeries, Condition: PutCondition{IfAbsent: true}}},
	}
	for _, h := range members {
		linkOps, err := r.seriesLinkOps(ctx, h)
		if err != nil {
			return err
		}
		ops = append(ops, linkOps...)
	}
	for _, groupID := range series.GroupIDs() {
		pointer := entities.SeriesPointer{
			GroupID:    groupID,
			SeriesID:   series.ID(),
			Title:      series.Title(),
			HangoutIDs: series.HangoutIDs(),
			StartTime:  startTime,
			Version:    1,
			UpdatedAt:  series.UpdatedAt(),
		}
		item, err := newSeriesPointerItem(pointer)
		if err != nil {
			return err
		}
		raw, err := marshalItem(item)
		if err != nil {
			return err
		}
		ops = append(ops, TransactOp{Put: &TransactPut{Item: raw}})
	}

	if err := r.store.TransactWrite(ctx, ops); err != nil {
		return err
	}

	r.logger.Info("created series",
		zap.String("seriesId", series.ID().String()),
		zap.Int("hangouts", len(members)),
	)
	return nil
}

// seriesLinkOps builds the per-hangout half of a series link move: the
// canonical row's series reference plus the pointer operations carrying the
// badge to every group feed. A member that does not exist yet (a part minted
// together with the series) rides in as a full conditional put; an existing
// member gets an in-place update of the link fields only, so counters and
// flags on the row are never rewritten from the caller's read copy.
func (r *SeriesRepository) seriesLinkOps(ctx context.Context, h *entities.Hangout) ([]TransactOp, error) {
	pk, err := keys.EventPK(h.ID())
	if err != nil {
		return nil, err
	}
	key := Key{PK: pk, SK: keys.MetadataSK()}

	raw, err := r.store.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}

	var ops []TransactOp
	if raw == nil {
		item, err := newHangoutItem(h)
		if err != nil {
			return nil, err
		}
		rawItem, err := marshalItem(item)
		if err != nil {
			return nil, err
		}
		ops = append(ops, TransactOp{Put: &TransactPut{
			Item:      rawItem,
			Condition: PutCondition{IfAbsent: true},
		}})
	} else {
		set, err := newHangoutSeriesLink(h)
		if err != nil {
			return nil, err
		}
		ops = append(ops, TransactOp{Update: &TransactUpdate{
			Key:    key,
			Update: Update{Set: set, ConditionExists: true},
		}})
	}

	pointerOps, err := r.pointer.HangoutPointerOps(ctx, h)
	if err != nil {
		return nil, err
	}
	return append(ops, pointerOps...), nil
}

// GetSeries reads the canonical series row
func (r *SeriesRepository) GetSeries(ctx context.Context, id valueobjects.SeriesID) (*entities.EventSeries, error) {
	pk, err := keys.SeriesPK(id)
	if err != nil {
		return nil, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: keys.MetadataSK()})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.NewNotFoundError("series")
	}
	var item seriesItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// UpdateSeries replaces the canonical series row and re-syncs the group
// series pointers.
func (r *SeriesRepository) UpdateSeries(ctx context.Context, series *entities.EventSeries, startTime time.Time) error {
	item, err := newSeriesItem(series)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	if err := r.store.PutItem(ctx, raw, PutCondition{}); err != nil {
		return err
	}
	return r.pointer.SyncSeriesPointers(ctx, series, startTime)
}

// SetSeriesLink writes both sides of one hangout-series link move in a
// single transaction: the series row with its amended hangout list, the
// hangout row with its amended series reference, and the badge on the
// hangout's group pointers.
func (r *SeriesRepository) SetSeriesLink(ctx context.Context, series *entities.EventSeries, h *entities.Hangout) error {
	seriesRow, err := newSeriesItem(series)
	if err != nil {
		return err
	}
	rawSeries, err := marshalItem(seriesRow)
	if err != nil {
		return err
	}
	linkOps, err := r.seriesLinkOps(ctx, h)
	if err != nil {
		return err
	}

	ops := append([]TransactOp{
		{Put: &TransactPut{Item: rawSeries}},
	}, linkOps...)
	return r.store.TransactWrite(ctx, ops)
}

// DeleteSeries removes the series row, all its group pointers, and the
// series reference on every member hangout in one transaction. The member
// hangouts survive; only the grouping dissolves.
func (r *SeriesRepository) DeleteSeries(ctx context.Context, series *entities.EventSeries, members []*entities.Hangout) error {
	pk, err := keys.SeriesPK(series.ID())
	if err != nil {
		return err
	}
	pointerSK, err := keys.SeriesPointerSK(series.ID())
	if err != nil {
		return err
	}

	ops := []TransactOp{
		{Delete: &TransactDelete{Key: Key{PK: pk, SK: keys.MetadataSK()}}},
	}
	for _, groupID := range series.GroupIDs() {
		groupPK, err := keys.GroupPK(groupID)
		if err != nil {
			return err
		}
		ops = append(ops, TransactOp{Delete: &TransactDelete{Key: Key{PK: groupPK, SK: pointerSK}}})
	}
	for _, h := range members {
		h.UnlinkSeries()
		linkOps, err := r.seriesLinkOps(ctx, h)
		if err != nil {
			return err
		}
		ops = append(ops, linkOps...)
	}

	return r.store.TransactWrite(ctx, ops)
}
