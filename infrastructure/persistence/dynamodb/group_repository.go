package dynamodb

import (
	"context"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// GroupRepository persists groups, their memberships and their item
// collection.
type GroupRepository struct {
	store  Store
	logger *zap.Logger
}

// NewGroupRepository creates a GroupRepository
func NewGroupRepository(store Store, logger *zap.Logger) *GroupRepository {
	return &GroupRepository{store: store, logger: logger}
}

// CreateGroup writes the group and its creator's admin membership in one
// transaction, so a group can never exist without at least one admin.
func (r *GroupRepository) CreateGroup(ctx context.Context, group *entities.Group, creator valueobjects.UserID) error {
	groupItem, err := newGroupItem(group)
	if err != nil {
		return err
	}
	rawGroup, err := marshalItem(groupItem)
	if err != nil {
		return err
	}

	membership := entities.NewGroupMembership(group, creator, entities.GroupRoleAdmin)
	memberItem, err := newMembershipItem(membership)
	if err != nil {
		return err
	}
	rawMember, err := marshalItem(memberItem)
	if err != nil {
		return err
	}

	err = r.store.TransactWrite(ctx, []TransactOp{
		{Put: &TransactPut{Item: rawGroup, Condition: PutCondition{IfAbsent: true}}},
		{Put: &TransactPut{Item: rawMember}},
	})
	if err != nil {
		return err
	}

	r.logger.Info("created group",
		zap.String("groupId", group.ID().String()),
		zap.String("createdBy", creator.String()),
	)
	return nil
}

// GetGroup reads the canonical group row
func (r *GroupRepository) GetGroup(ctx context.Context, id valueobjects.GroupID) (*entities.Group, error) {
	pk, err := keys.GroupPK(id)
	if err != nil {
		return nil, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: keys.MetadataSK()})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.NewNotFoundError("group")
	}
	var item groupItem
	if err := unmarshalItem(raw, &item); err != nil {
		return nil, err
	}
	return item.toDomain()
}

// UpdateGroup replaces the canonical group row. Denormalized group fields on
// membership rows are refreshed separately by SyncMembershipProjections.
func (r *GroupRepository) UpdateGroup(ctx context.Context, group *entities.Group) error {
	item, err := newGroupItem(group)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// SyncMembershipProjections refreshes the denormalized group name and image
// on every membership row after the group changed.
func (r *GroupRepository) SyncMembershipProjections(ctx context.Context, group *entities.Group) error {
	memberships, err := r.listAllMembers(ctx, group.ID())
	if err != nil {
		return err
	}
	for _, m := range memberships {
		m.GroupName = group.Name()
		m.GroupImagePath = group.MainImagePath()
		item, err := newMembershipItem(m)
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
	}
	return nil
}

// DeleteGroup removes the whole group partition: metadata, memberships,
// invite codes and pointer rows. The metadata row goes first so a racing
// read sees the group disappear before its children do.
func (r *GroupRepository) DeleteGroup(ctx context.Context, id valueobjects.GroupID) error {
	pk, err := keys.GroupPK(id)
	if err != nil {
		return err
	}

	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
	})
	if err != nil {
		return err
	}
	toDelete := make([]Key, 0, len(items))
	for _, item := range items {
		toDelete = append(toDelete, Key{PK: stringAttr(item, attrPK), SK: stringAttr(item, attrSK)})
	}

	if err := r.store.DeleteItem(ctx, Key{PK: pk, SK: keys.MetadataSK()}); err != nil {
		return err
	}
	return r.store.BatchWriteItems(ctx, nil, toDelete)
}

// AddMember writes a membership row; adding an existing member is a conflict
func (r *GroupRepository) AddMember(ctx context.Context, membership entities.GroupMembership) error {
	item, err := newMembershipItem(membership)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	err = r.store.PutItem(ctx, raw, PutCondition{IfAbsent: true})
	if err == ErrConditionFailed {
		return errors.NewConflictError("user is already a member of this group")
	}
	return err
}

// RemoveMember deletes a membership row
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) error {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := keys.MembershipSK(userID)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// GetMember reads a single membership row
func (r *GroupRepository) GetMember(ctx context.Context, groupID valueobjects.GroupID, userID valueobjects.UserID) (entities.GroupMembership, error) {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	sk, err := keys.MembershipSK(userID)
	if err != nil {
		return entities.GroupMembership{}, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: sk})
	if err != nil {
		return entities.GroupMembership{}, err
	}
	if raw == nil {
		return entities.GroupMembership{}, errors.NewNotFoundError("group membership")
	}
	var item membershipItem
	if err := unmarshalItem(raw, &item); err != nil {
		return entities.GroupMembership{}, err
	}
	return item.toDomain()
}

// ListMembers returns one page of a group's memberships
func (r *GroupRepository) ListMembers(ctx context.Context, groupID valueobjects.GroupID, limit int32, token string) (Page[entities.GroupMembership], error) {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return Page[entities.GroupMembership]{}, err
	}
	startKey, err := decodePageToken(token)
	if err != nil {
		return Page[entities.GroupMembership]{}, err
	}

	items, lastKey, err := r.store.QueryItems(ctx, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixUser + keys.Delimiter,
		Limit:          limit,
		StartKey:       startKey,
	})
	if err != nil {
		return Page[entities.GroupMembership]{}, err
	}

	memberships := make([]entities.GroupMembership, 0, len(items))
	for _, raw := range items {
		var item membershipItem
		if err := unmarshalItem(raw, &item); err != nil {
			return Page[entities.GroupMembership]{}, err
		}
		m, err := item.toDomain()
		if err != nil {
			return Page[entities.GroupMembership]{}, err
		}
		memberships = append(memberships, m)
	}

	nextToken, err := encodePageToken(lastKey)
	if err != nil {
		return Page[entities.GroupMembership]{}, err
	}
	return Page[entities.GroupMembership]{Items: memberships, NextToken: nextToken}, nil
}

// ListGroupsForUser returns the memberships of one user across all groups,
// served by the user-to-group index.
func (r *GroupRepository) ListGroupsForUser(ctx context.Context, userID valueobjects.UserID) ([]entities.GroupMembership, error) {
	userPK, err := keys.UserPK(userID)
	if err != nil {
		return nil, err
	}

	items, err := queryAll(ctx, r.store, Query{
		IndexName:      UserGroupIndex,
		PartitionName:  attrGSI1PK,
		PartitionValue: userPK,
		SortName:       attrGSI1SK,
	})
	if err != nil {
		return nil, err
	}

	memberships := make([]entities.GroupMembership, 0, len(items))
	for _, raw := range items {
		var item membershipItem
		if err := unmarshalItem(raw, &item); err != nil {
			return nil, err
		}
		m, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, nil
}

func (r *GroupRepository) listAllMembers(ctx context.Context, groupID valueobjects.GroupID) ([]entities.GroupMembership, error) {
	var all []entities.GroupMembership
	token := ""
	for {
		page, err := r.ListMembers(ctx, groupID, 0, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore() {
			return all, nil
		}
		token = page.NextToken
	}
}
