package dynamodb

import (
	"context"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// PollRepository persists polls, options and votes inside their hangout's
// partition. Counts are never stored; PollDetail tallies them at read time.
type PollRepository struct {
	store  Store
	logger *zap.Logger
}

// NewPollRepository creates a PollRepository
func NewPollRepository(store Store, logger *zap.Logger) *PollRepository {
	return &PollRepository{store: store, logger: logger}
}

// CreatePoll writes the poll and all its options in one transaction
func (r *PollRepository) CreatePoll(ctx context.Context, poll entities.Poll, options []entities.PollOption) error {
	pollRow, err := newPollItem(poll)
	if err != nil {
		return err
	}
	rawPoll, err := marshalItem(pollRow)
	if err != nil {
		return err
	}

	ops := []TransactOp{
		{Put: &TransactPut{Item: rawPoll, Condition: PutCondition{IfAbsent: true}}},
	}
	for _, option := range options {
		item, err := newPollOptionItem(option)
		if err != nil {
			return err
		}
		raw, err := marshalItem(item)
		if err != nil {
			return err
		}
		ops = append(ops, TransactOp{Put: &TransactPut{Item: raw}})
	}
	return r.store.TransactWrite(ctx, ops)
}

// GetPollDetail reads a poll with its options and votes in one prefix query
func (r *PollRepository) GetPollDetail(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) (entities.PollDetail, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return entities.PollDetail{}, err
	}
	prefix, err := keys.PollSK(pollID)
	if err != nil {
		return entities.PollDetail{}, err
	}

	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     prefix,
	})
	if err != nil {
		return entities.PollDetail{}, err
	}

	var detail entities.PollDetail
	found := false
	for _, raw := range items {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return entities.PollDetail{}, err
		}
		switch v := decoded.Value.(type) {
		case entities.Poll:
			detail.Poll = v
			found = true
		case entities.PollOption:
			detail.Options = append(detail.Options, v)
		case entities.Vote:
			detail.Votes = append(detail.Votes, v)
		default:
			return entities.PollDetail{}, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}
	if !found {
		return entities.PollDetail{}, errors.NewNotFoundError("poll")
	}
	return detail, nil
}

// ListPolls reads every poll of a hangout, options and votes included
func (r *PollRepository) ListPolls(ctx context.Context, hangoutID valueobjects.HangoutID) ([]entities.PollDetail, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return nil, err
	}

	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixPoll + keys.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	var details []entities.PollDetail
	index := make(map[valueobjects.PollID]int)
	at := func(pollID valueobjects.PollID) *entities.PollDetail {
		if i, ok := index[pollID]; ok {
			return &details[i]
		}
		details = append(details, entities.PollDetail{})
		index[pollID] = len(details) - 1
		return &details[len(details)-1]
	}

	for _, raw := range items {
		decoded, err := DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		switch v := decoded.Value.(type) {
		case entities.Poll:
			at(v.PollID).Poll = v
		case entities.PollOption:
			d := at(v.PollID)
			d.Options = append(d.Options, v)
		case entities.Vote:
			d := at(v.PollID)
			d.Votes = append(d.Votes, v)
		default:
			return nil, errors.NewUnknownItemShapeError(stringAttr(raw, attrSK))
		}
	}
	return details, nil
}

// CastVote records a vote. On a single-select poll the user's previous vote
// items are deleted and the new one written in the same transaction, so no
// reader ever observes the user with zero or two votes.
func (r *PollRepository) CastVote(ctx context.Context, vote entities.Vote, multiSelect bool) error {
	item, err := newVoteItem(vote)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}

	if multiSelect {
		return r.store.PutItem(ctx, raw, PutCondition{})
	}

	existing, err := r.votesByUser(ctx, vote.HangoutID, vote.PollID, vote.UserID)
	if err != nil {
		return err
	}
	ops := make([]TransactOp, 0, len(existing)+1)
	for _, key := range existing {
		ops = append(ops, TransactOp{Delete: &TransactDelete{Key: key}})
	}
	ops = append(ops, TransactOp{Put: &TransactPut{Item: raw}})
	return r.store.TransactWrite(ctx, ops)
}

// RemoveVote deletes one vote item
func (r *PollRepository) RemoveVote(ctx context.Context, vote entities.Vote) error {
	pk, err := keys.EventPK(vote.HangoutID)
	if err != nil {
		return err
	}
	sk, err := keys.VoteSK(vote.PollID, vote.UserID, vote.OptionID)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// DeletePoll removes the poll row and every option and vote under it
func (r *PollRepository) DeletePoll(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID) error {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return err
	}
	prefix, err := keys.PollSK(pollID)
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

// votesByUser collects the keys of a user's existing vote items in a poll
func (r *PollRepository) votesByUser(ctx context.Context, hangoutID valueobjects.HangoutID, pollID valueobjects.PollID, userID valueobjects.UserID) ([]Key, error) {
	pk, err := keys.EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	prefix, err := keys.VotePrefixSK(pollID)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     prefix,
	})
	if err != nil {
		return nil, err
	}

	var matches []Key
	for _, raw := range items {
		if stringAttr(raw, "UserID") != userID.String() {
			continue
		}
		matches = append(matches, Key{PK: stringAttr(raw, attrPK), SK: stringAttr(raw, attrSK)})
	}
	return matches, nil
}
