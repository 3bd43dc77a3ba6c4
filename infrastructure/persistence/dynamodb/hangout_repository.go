package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// inProgressHorizon bounds the in-progress feed scan: only hangouts ending
// within this window of now are considered. Without a bound the scan would
// walk the whole end-time index; a hangout longer than the horizon drops
// out of the in-progress feed early, which is acceptable for this product.
const inProgressHorizon = 24 * time.Hour

// HangoutDetail is a hangout's full item collection, read in one partition
// query (plus one for the participation partition).
type HangoutDetail struct {
	Hangout        *entities.Hangout
	Polls          []entities.PollDetail
	Cars           []entities.Car
	Riders         []entities.CarRider
	NeedsRide      []entities.NeedsRide
	InterestLevels []entities.InterestLevel
	Attributes     []entities.HangoutAttribute
	Participations []entities.Participation
	Offers         []entities.ReservationOffer
}

// FeedItem is one entry of a group feed: a hangout pointer or, in the
// upcoming feed, a series pointer.
type FeedItem struct {
	Hangout *entities.HangoutPointer
	Series  *entities.SeriesPointer
}

// HangoutRepository persists hangouts, their pointers and their item
// collections, and serves the time-ordered group feeds.
type HangoutRepository struct {
	store   Store
	pointer *PointerSync
	logger  *zap.Logger
}

// NewHangoutRepository creates a HangoutRepository
func NewHangoutRepository(store Store, pointer *PointerSync, logger *zap.Logger) *HangoutRepository {
	return &HangoutRepository{store: store, pointer: pointer, logger: logger}
}

// CreateHangout writes the canonical row and one pointer per associated
// group in a single transaction: either the hangout appears in every group
// feed or it does not exist.
func (r *HangoutRepository) CreateHangout(ctx context.Context, h *entities.Hangout) error {
	canonical, err := newHangoutItem(h)
	if err != nil {
		return err
	}
	rawCanonical, err := marshalItem(canonical)
	if err != nil {
		return err
	}

	ops := []TransactOp{
		{Put: &TransactPut{Item: rawCanonical, Condition: PutCondition{IfAbsent: true}}},
	}
	for _, groupID := range h.GroupIDs() {
		pointer := entities.HangoutPointer{
			GroupID:          groupID,
			ParticipantCount: h.ParticipantCount(),
			Version:          1,
			UpdatedAt:        h.UpdatedAt(),
		}
		ApplyHangoutToPointer(h, &pointer)
		item, err := newHangoutPointerItem(pointer)
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

	r.logger.Info("created hangout",
		zap.String("hangoutId", h.ID().String()),
		zap.Int("groups", len(h.GroupIDs())),
	)
	return nil
}

// GetHangout reads the canonical hangout row
func (r *HangoutRepository) GetHangout(ctx context.Context, id valueobjects.HangoutID) (*entities.Hangout, error) {
	pk, err := keys.EventPK(id)
	if err != nil {
		return nil, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: keys.MetadataSK()})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.NewNotFoundError("hangout")
	}
	var item hangoutItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// UpdateHangout sets the editable fields on the canonical row and propagates
// the change to every group pointer through the field-sync path. Only the
// display fields are written: a full replace would clobber an interleaved
// participant-count ADD or reminder flip with the caller's read copy.
func (r *HangoutRepository) UpdateHangout(ctx context.Context, h *entities.Hangout) error {
	pk, err := keys.EventPK(h.ID())
	if err != nil {
		return err
	}
	set, err := newHangoutDisplayUpdate(h)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateItem(ctx, Key{PK: pk, SK: keys.MetadataSK()}, Update{
		Set:             set,
		ConditionExists: true,
	})
	if err == ErrConditionFailed {
		return errors.NewNotFoundError("hangout")
	}
	if err != nil {
		return err
	}
	return r.pointer.SyncHangoutPointers(ctx, h)
}

// DeleteHangout removes the canonical row and all group pointers in one
// transaction, then clears the remaining item collection. Children go after
// the canonical row so readers cannot see a headless collection as live.
func (r *HangoutRepository) DeleteHangout(ctx context.Context, h *entities.Hangout) error {
	eventPK, err := keys.EventPK(h.ID())
	if err != nil {
		return err
	}
	pointerSK, err := keys.HangoutPointerSK(h.ID())
	if err != nil {
		return err
	}

	ops := []TransactOp{
		{Delete: &TransactDelete{Key: Key{PK: eventPK, SK: keys.MetadataSK()}}},
	}
	for _, groupID := range h.GroupIDs() {
		groupPK, err := keys.GroupPK(groupID)
		if err != nil {
			return err
		}
		ops = append(ops, TransactOp{Delete: &TransactDelete{Key: Key{PK: groupPK, SK: pointerSK}}})
	}
	if err := r.store.TransactWrite(ctx, ops); err != nil {
		return err
	}

	hangoutPK, err := keys.HangoutPK(h.ID())
	if err != nil {
		return err
	}
	var toDelete []Key
	for _, pk := range []string{eventPK, hangoutPK} {
		items, err := queryAll(ctx, r.store, Query{
			PartitionName:  attrPK,
			PartitionValue: pk,
		})
		if err != nil {
			return err
		}
		for _, item := range items {
			toDelete = append(toDelete, Key{PK: stringAttr(item, attrPK), SK: stringAttr(item, attrSK)})
		}
	}
	if len(toDelete) == 0 {
		return nil
	}
	return r.store.BatchWriteItems(ctx, nil, toDelete)
}

// GetHangoutDetail reads the hangout's whole item collection in one
// partition query and materializes every row through the codec. A row the
// codec cannot place fails the read; silently dropping it would misreport
// the collection.
func (r *HangoutRepository) GetHangoutDetail(ctx context.Context, id valueobjects.HangoutID) (*HangoutDetail, error) {
	eventPK, err := keys.EventPK(id)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: eventPK,
	})
	if err != nil {
		return nil, err
	}

	detail := &HangoutDetail{}
	pollIndex := make(map[valueobjects.PollID]int)

	pollAt := func(pollID valueobjects.PollID) *entities.PollDetail {
		if idx, ok := pollIndex[pollID]; ok {
			return &detail.Polls[idx]
		}
		detail.Polls = append(detail.Polls, entities.PollDetail{})
		pollIndex[pollID] = len(detail.Polls) - 1
		return &detail.Polls[len(detail.Polls)-1]
	}

	for _, raw := range items {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		switch v := decoded.Value.(type) {
		case *entities.Hangout:
			detail.Hangout = v
		case entities.Poll:
			pollAt(v.PollID).Poll = v
		case entities.PollOption:
			d := pollAt(v.PollID)
			d.Options = append(d.Options, v)
		case entities.Vote:
			d := pollAt(v.PollID)
			d.Votes = append(d.Votes, v)
		case entities.Car:
			detail.Cars = append(detail.Cars, v)
		case entities.CarRider:
			detail.Riders = append(detail.Riders, v)
		case entities.NeedsRide:
			detail.NeedsRide = append(detail.NeedsRide, v)
		case entities.InterestLevel:
			detail.InterestLevels = append(detail.InterestLevels, v)
		case entities.HangoutAttribute:
			detail.Attributes = append(detail.Attributes, v)
		default:
			return nil, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}
	if detail.Hangout == nil {
		return nil, errors.NewNotFoundError("hangout")
	}

	hangoutPK, err := keys.HangoutPK(id)
	if err != nil {
		return nil, err
	}
	participationRows, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: hangoutPK,
	})
	if err != nil {
		return nil, err
	}
	for _, raw := range participationRows {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		switch v := decoded.Value.(type) {
		case entities.Participation:
			detail.Participations = append(detail.Participations, v)
		case entities.ReservationOffer:
			detail.Offers = append(detail.Offers, v)
		default:
			return nil, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}

	return detail, nil
}

// FindByExternalSource looks a hangout up by its import source key, used to
// deduplicate imported events.
func (r *HangoutRepository) FindByExternalSource(ctx context.Context, source string) (*entities.Hangout, error) {
	items, _, err := r.store.QueryItems(ctx, Query{
		IndexName:      ExternalSourceIndex,
		PartitionName:  attrExternalSource,
		PartitionValue: source,
		Limit:          1,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewNotFoundError("hangout")
	}
	var item hangoutItem
	if err := unmarshalItem(items[0], &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// MarkReminderSent flips the reminder flag on the canonical row. The flag
// only ever goes one way, so no version check is needed.
func (r *HangoutRepository) MarkReminderSent(ctx context.Context, id valueobjects.HangoutID) error {
	pk, err := keys.EventPK(id)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateItem(ctx, Key{PK: pk, SK: keys.MetadataSK()}, Update{
		Set: map[string]types.AttributeValue{
			"ReminderSent": &types.AttributeValueMemberBOOL{Value: true},
		},
		ConditionExists: true,
	})
	if err == ErrConditionFailed {
		return errors.NewNotFoundError("hangout")
	}
	return err
}

// AddParticipantDelta applies a participant-count change to the canonical
// row and every group pointer at once.
func (r *HangoutRepository) AddParticipantDelta(ctx context.Context, h *entities.Hangout, delta int) error {
	return r.pointer.AddParticipantDelta(ctx, h, delta)
}

// ListUpcoming returns one page of a group's future feed, start-ascending.
// Series pointers share the start-time index, so upcoming series appear
// inline with the hangouts.
func (r *HangoutRepository) ListUpcoming(ctx context.Context, groupID valueobjects.GroupID, now time.Time, limit int32, token string) (Page[FeedItem], error) {
	after := now.Unix()
	return r.feedPage(ctx, groupID, Query{
		IndexName: StartTimeIndex,
		SortName:  attrGSI2SK,
		SortAfter: &after,
		Limit:     limit,
	}, attrGSI2PK, token)
}

// ListPast returns one page of a group's past feed, most recently started
// first. The cut is on start time so a hangout that has begun but not yet
// ended still shows up here rather than falling out of every bucket.
func (r *HangoutRepository) ListPast(ctx context.Context, groupID valueobjects.GroupID, now time.Time, limit int32, token string) (Page[FeedItem], error) {
	before := now.Unix()
	return r.feedPage(ctx, groupID, Query{
		IndexName:  StartTimeIndex,
		SortName:   attrGSI2SK,
		SortBefore: &before,
		Limit:      limit,
		Descending: true,
	}, attrGSI2PK, token)
}

// ListInProgress returns the hangouts currently running: ended after now,
// started before now, bounded by inProgressHorizon. The start check is a
// post-filter; the index range only constrains the end time.
func (r *HangoutRepository) ListInProgress(ctx context.Context, groupID valueobjects.GroupID, now time.Time) ([]entities.HangoutPointer, error) {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	after := now.Unix()
	before := now.Add(inProgressHorizon).Unix()

	items, err := queryAll(ctx, r.store, Query{
		IndexName:      EndTimeIndex,
		PartitionName:  attrGSI3PK,
		PartitionValue: pk,
		SortName:       attrGSI3SK,
		SortAfter:      &after,
		SortBefore:     &before,
	})
	if err != nil {
		return nil, err
	}

	var inProgress []entities.HangoutPointer
	for _, raw := range items {
		var item hangoutPointerItem
		if err := unmarshalItem(raw, &item); err != nil {
			return nil, err
		}
		pointer, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		if pointer.Window.InProgressAt(now) {
			inProgress = append(inProgress, pointer)
		}
	}
	return inProgress, nil
}

func (r *HangoutRepository) feedPage(ctx context.Context, groupID valueobjects.GroupID, q Query, partitionName, token string) (Page[FeedItem], error) {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return Page[FeedItem]{}, err
	}
	startKey, err := decodePageToken(token)
	if err != nil {
		return Page[FeedItem]{}, err
	}
	q.PartitionName = partitionName
	q.PartitionValue = pk
	q.StartKey = startKey

	items, lastKey, err := r.store.QueryItems(ctx, q)
	if err != nil {
		return Page[FeedItem]{}, err
	}

	feed := make([]FeedItem, 0, len(items))
	for _, raw := range items {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return Page[FeedItem]{}, err
		}
		switch v := decoded.Value.(type) {
		case entities.HangoutPointer:
			feed = append(feed, FeedItem{Hangout: &v})
		case entities.SeriesPointer:
			feed = append(feed, FeedItem{Series: &v})
		default:
			return Page[FeedItem]{}, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}

	nextToken, err := encodePageToken(lastKey)
	if err != nil {
		return Page[FeedItem]{}, err
	}
	return Page[FeedItem]{Items: feed, NextToken: nextToken}, nil
}
