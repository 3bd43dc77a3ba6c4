package dynamodb

import (
	"context"
	"crypto/rand"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// Invite codes are short and human-shareable. The alphabet drops easily
// confused characters (0/O, 1/I/L).
const (
	inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	inviteCodeLength   = 8
	inviteCodeMaxDraws = 5
)

// InviteRepository persists group invite codes. Codes are globally unique:
// creation draws random codes until one is free on the code index, bounded
// by inviteCodeMaxDraws.
type InviteRepository struct {
	store  Store
	logger *zap.Logger
}

// NewInviteRepository creates an InviteRepository
func NewInviteRepository(store Store, logger *zap.Logger) *InviteRepository {
	return &InviteRepository{store: store, logger: logger}
}

// CreateInvite mints a fresh invite code for a group
func (r *InviteRepository) CreateInvite(ctx context.Context, groupID valueobjects.GroupID, createdBy valueobjects.UserID, maxUses int) (entities.InviteCode, error) {
	for draw := 0; draw < inviteCodeMaxDraws; draw++ {
		code, err := randomInviteCode()
		if err != nil {
			return entities.InviteCode{}, err
		}
		if _, err := r.GetByCode(ctx, code); err == nil {
			continue // collision, draw again
		} else if !errors.IsNotFound(err) {
			return entities.InviteCode{}, err
		}

		invite := entities.InviteCode{
			Code:      code,
			GroupID:   groupID,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
			MaxUses:   maxUses,
		}
		item, err := newInviteItem(invite)
		if err != nil {
			return entities.InviteCode{}, err
		}
		raw, err := marshalItem(item)
		if err != nil {
			return entities.InviteCode{}, err
		}
		err = r.store.PutItem(ctx, raw, PutCondition{IfAbsent: true})
		if err == ErrConditionFailed {
			continue
		}
		if err != nil {
			return entities.InviteCode{}, err
		}

		r.logger.Info("created invite code", zap.String("groupId", groupID.String()))
		return invite, nil
	}
	return entities.InviteCode{}, errors.NewInternalError("could not mint a unique invite code")
}

// GetByCode looks an invite up on the code index
func (r *InviteRepository) GetByCode(ctx context.Context, code string) (entities.InviteCode, error) {
	items, _, err := r.store.QueryItems(ctx, Query{
		IndexName:      CodeIndex,
		PartitionName:  attrCode,
		PartitionValue: code,
		Limit:          1,
	})
	if err != nil {
		return entities.InviteCode{}, err
	}
	if len(items) == 0 {
		return entities.InviteCode{}, errors.NewNotFoundError("invite code")
	}
	var item inviteItem
	if err := unmarshalItem(items[0], &item); err != nil {
		return entities.InviteCode{}, err
	}
	return item.toDomain()
}

// ConsumeInvite burns one use of a code. The use counter moves under an
// optimistic check so two concurrent joins cannot both take the last use.
func (r *InviteRepository) ConsumeInvite(ctx context.Context, code string) (entities.InviteCode, error) {
	return updateWithRetry(ctx, "invite code",
		func(ctx context.Context) (entities.InviteCode, error) {
			return r.GetByCode(ctx, code)
		},
		func(invite entities.InviteCode) (entities.InviteCode, error) {
			if !invite.Usable() {
				return entities.InviteCode{}, errors.NewForbiddenError("invite code is no longer usable")
			}
			invite.Uses++
			return invite, nil
		},
		func(ctx context.Context, invite entities.InviteCode) error {
			return r.writeWithUsesCheck(ctx, invite, invite.Uses-1)
		},
	)
}

// RevokeInvite disables a code without deleting its audit trail
func (r *InviteRepository) RevokeInvite(ctx context.Context, code string) error {
	invite, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	invite.Revoked = true
	item, err := newInviteItem(invite)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// ListInvites reads every invite code of a group
func (r *InviteRepository) ListInvites(ctx context.Context, groupID valueobjects.GroupID) ([]entities.InviteCode, error) {
	pk, err := keys.GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixInvite + keys.Delimiter,
	})
	if err != nil {
		return nil, err
	}

	invites := make([]entities.InviteCode, 0, len(items))
	for _, raw := range items {
		var item inviteItem
		if err := unmarshalItem(raw, &item); err != nil {
			return nil, err
		}
		invite, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// writeWithUsesCheck bumps the use counter conditioned on the count it was
// read at. Uses stands in for a version here; nothing else mutates an
// invite concurrently.
func (r *InviteRepository) writeWithUsesCheck(ctx context.Context, invite entities.InviteCode, expectedUses int) error {
	pk, err := keys.GroupPK(invite.GroupID)
	if err != nil {
		return err
	}
	sk, err := keys.InviteSK(invite.Code)
	if err != nil {
		return err
	}
	_, err = r.store.UpdateItem(ctx, Key{PK: pk, SK: sk}, Update{
		Set: map[string]types.AttributeValue{
			"Uses": &types.AttributeValueMemberN{Value: strconv.Itoa(invite.Uses)},
		},
		ConditionEqual: map[string]types.AttributeValue{
			"Uses": &types.AttributeValueMemberN{Value: strconv.Itoa(expectedUses)},
		},
		ConditionExists: true,
	})
	return err
}

func randomInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.NewInternalError("could not draw random invite code")
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range buf {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
