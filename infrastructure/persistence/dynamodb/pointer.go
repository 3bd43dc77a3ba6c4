package dynamodb

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
)

// PointerSync keeps the per-group pointer projections consistent with their
// canonical rows. It is the only code that writes pointer items: updates go
// through the shared field-copy (ApplyHangoutToPointer) under an optimistic
// version check, and participant counts move through native atomic adds so
// concurrent joins never read-modify-write each other away.
type PointerSync struct {
	store  Store
	logger *zap.Logger
}

// NewPointerSync creates a PointerSync
func NewPointerSync(store Store, logger *zap.Logger) *PointerSync {
	return &PointerSync{store: store, logger: logger}
}

type pointerState struct {
	pointer entities.HangoutPointer
	version int64
	exists  bool
}

// SyncHangoutPointers propagates the canonical hangout onto the pointer in
// every associated group, creating pointers that do not exist yet. Each
// pointer is updated independently; a conflict on one group does not roll
// back the others.
func (s *PointerSync) SyncHangoutPointers(ctx context.Context, h *entities.Hangout) error {
	for _, groupID := range h.GroupIDs() {
		if err := s.syncHangoutPointer(ctx, h, groupID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PointerSync) syncHangoutPointer(ctx context.Context, h *entities.Hangout, groupID valueobjects.GroupID) error {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := keys.HangoutPointerSK(h.ID())
	if err != nil {
		return err
	}
	key := Key{PK: pk, SK: sk}

	_, err = updateWithRetry(ctx, "hangout pointer",
		func(ctx context.Context) (pointerState, error) {
			raw, err := s.store.GetItem(ctx, key)
			if err != nil {
				return pointerState{}, err
			}
			if raw == nil {
				return pointerState{
					pointer: entities.HangoutPointer{
						GroupID:          groupID,
						ParticipantCount: h.ParticipantCount(),
					},
				}, nil
			}
			var item hangoutPointerItem
			if err := unmarshalItem(raw, &item); err != nil {
				return pointerState{}, err
			}
			pointer, err := item.toDomain()
			if err != nil {
				return pointerState{}, err
			}
			return pointerState{pointer: pointer, version: pointer.Version, exists: true}, nil
		},
		func(st pointerState) (pointerState, error) {
			ApplyHangoutToPointer(h, &st.pointer)
			st.pointer.Version = st.version + 1
			st.pointer.UpdatedAt = time.Now().UTC()
			return st, nil
		},
		func(ctx context.Context, st pointerState) error {
			item, err := newHangoutPointerItem(st.pointer)
			if err != nil {
				return err
			}
			raw, err := marshalItem(item)
			if err != nil {
				return err
			}
			condition := PutCondition{IfAbsent: true}
			if st.exists {
				version := st.version
				condition = PutCondition{IfVersionEquals: &version}
			}
			return s.store.PutItem(ctx, raw, condition)
		},
	)
	if err != nil {
		return err
	}

	s.logger.Debug("synced hangout pointer",
		zap.String("hangoutId", h.ID().String()),
		zap.String("groupId", groupID.String()),
	)
	return nil
}

// HangoutPointerOps builds the transactional form of a pointer sync: one
// operation per associated group, reflecting the canonical hangout. Callers
// fold these into a larger TransactWrite when the pointer change must land
// or fail together with other rows. A missing pointer becomes a conditional
// put; an existing pointer becomes an in-place update of the propagated
// fields only, so an interleaved participant-count add is never overwritten.
func (s *PointerSync) HangoutPointerOps(ctx context.Context, h *entities.Hangout) ([]TransactOp, error) {
	sk, err := keys.HangoutPointerSK(h.ID())
	if err != nil {
		return nil, err
	}

	ops := make([]TransactOp, 0, len(h.GroupIDs()))
	for _, groupID := range h.GroupIDs() {
		pk, err := keys.GroupPK(groupID)
		if err != nil {
			return nil, err
		}
		key := Key{PK: pk, SK: sk}

		raw, err := s.store.GetItem(ctx, key)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			pointer := entities.HangoutPointer{
				GroupID:          groupID,
				ParticipantCount: h.ParticipantCount(),
				Version:          1,
				UpdatedAt:        time.Now().UTC(),
			}
			ApplyHangoutToPointer(h, &pointer)
			item, err := newHangoutPointerItem(pointer)
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
			continue
		}

		set, err := newHangoutPointerUpdate(h)
		if err != nil {
			return nil, err
		}
		ops = append(ops, TransactOp{Update: &TransactUpdate{
			Key: key,
			Update: Update{
				Set:             set,
				Add:             map[string]int64{attrVersion: 1},
				ConditionExists: true,
			},
		}})
	}
	return ops, nil
}

// DeleteHangoutPointers removes the pointer rows for the given groups, used
// when a hangout is deleted or dissociated from a group.
func (s *PointerSync) DeleteHangoutPointers(ctx context.Context, hangoutID valueobjects.HangoutID, groupIDs []valueobjects.GroupID) error {
	for _, groupID := range groupIDs {
		pk, err := keys.GroupPK(groupID)
		if err != nil {
			return err
		}
		sk, err := keys.HangoutPointerSK(hangoutID)
		if err != nil {
			return err
		}
		if err := s.store.DeleteItem(ctx, Key{PK: pk, SK: sk}); err != nil {
			return err
		}
	}
	return nil
}

// AddParticipantDelta applies a participant-count delta to the canonical
// hangout row and every group pointer as native atomic adds. The updates
// require the rows to exist so a racing delete cannot resurrect them.
func (s *PointerSync) AddParticipantDelta(ctx context.Context, h *entities.Hangout, delta int) error {
	update := Update{
		Add:             map[string]int64{"ParticipantCount": int64(delta)},
		ConditionExists: true,
	}

	eventPK, err := keys.EventPK(h.ID())
	if err != nil {
		return err
	}
	if _, err := s.store.UpdateItem(ctx, Key{PK: eventPK, SK: keys.MetadataSK()}, update); err != nil {
		return err
	}

	sk, err := keys.HangoutPointerSK(h.ID())
	if err != nil {
		return err
	}
	for _, groupID := range h.GroupIDs() {
		pk, err := keys.GroupPK(groupID)
		if err != nil {
			return err
		}
		if _, err := s.store.UpdateItem(ctx, Key{PK: pk, SK: sk}, update); err != nil {
			return err
		}
	}
	return nil
}

// SyncSeriesPointers propagates the canonical series onto every associated
// group's series pointer, creating missing ones.
func (s *PointerSync) SyncSeriesPointers(ctx context.Context, series *entities.EventSeries, startTime time.Time) error {
	for _, groupID := range series.GroupIDs() {
		if err := s.syncSeriesPointer(ctx, series, groupID, startTime); err != nil {
			return err
		}
	}
	return nil
}

func (s *PointerSync) syncSeriesPointer(ctx context.Context, series *entities.EventSeries, groupID valueobjects.GroupID, startTime time.Time) error {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := keys.SeriesPointerSK(series.ID())
	if err != nil {
		return err
	}
	key := Key{PK: pk, SK: sk}

	type seriesState struct {
		pointer entities.SeriesPointer
		version int64
		exists  bool
	}

	_, err = updateWithRetry(ctx, "series pointer",
		func(ctx context.Context) (seriesState, error) {
			raw, err := s.store.GetItem(ctx, key)
			if err != nil {
				return seriesState{}, err
			}
			if raw == nil {
				return seriesState{pointer: entities.SeriesPointer{GroupID: groupID}}, nil
			}
			var item seriesPointerItem
			if err := unmarshalItem(raw, &item); err != nil {
				return seriesState{}, err
			}
			pointer, err := item.toDomain()
			if err != nil {
				return seriesState{}, err
			}
			return seriesState{pointer: pointer, version: pointer.Version, exists: true}, nil
		},
		func(st seriesState) (seriesState, error) {
			st.pointer.SeriesID = series.ID()
			st.pointer.Title = series.Title()
			st.pointer.HangoutIDs = series.HangoutIDs()
			st.pointer.StartTime = startTime
			st.pointer.Version = st.version + 1
			st.pointer.UpdatedAt = time.Now().UTC()
			return st, nil
		},
		func(ctx context.Context, st seriesState) error {
			item, err := newSeriesPointerItem(st.pointer)
			if err != nil {
				return err
			}
			raw, err := marshalItem(item)
			if err != nil {
				return err
			}
			condition := PutCondition{IfAbsent: true}
			if st.exists {
				version := st.version
				condition = PutCondition{IfVersionEquals: &version}
			}
			return s.store.PutItem(ctx, raw, condition)
		},
	)
	return err
}

// DeleteSeriesPointers removes the series pointer rows for the given groups
func (s *PointerSync) DeleteSeriesPointers(ctx context.Context, seriesID valueobjects.SeriesID, groupIDs []valueobjects.GroupID) error {
	for _, groupID := range groupIDs {
		pk, err := keys.GroupPK(groupID)
		if err != nil {
			return err
		}
		sk, err := keys.SeriesPointerSK(seriesID)
		if err != nil {
			return err
		}
		if err := s.store.DeleteItem(ctx, Key{PK: pk, SK: sk}); err != nil {
			return err
		}
	}
	return nil
}
