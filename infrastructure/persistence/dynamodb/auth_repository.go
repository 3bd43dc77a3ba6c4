package dynamodb

import (
	"context"

	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/infrastructure/persistence/keys"
	"inviter-backend/pkg/errors"
)

// AuthRepository persists refresh tokens, phone verification codes and
// password reset requests under the user's partition. The rows carry a TTL
// so the table reaps them on expiry; reads still check expiry themselves
// because TTL deletion lags.
type AuthRepository struct {
	store  Store
	logger *zap.Logger
}

// NewAuthRepository creates an AuthRepository
func NewAuthRepository(store Store, logger *zap.Logger) *AuthRepository {
	return &AuthRepository{store: store, logger: logger}
}

// SaveRefreshToken writes a refresh token row
func (r *AuthRepository) SaveRefreshToken(ctx context.Context, t entities.RefreshToken) error {
	item, err := newRefreshTokenItem(t)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// GetRefreshToken looks a token up by its hash on the token index
func (r *AuthRepository) GetRefreshToken(ctx context.Context, tokenHash string) (entities.RefreshToken, error) {
	items, _, err := r.store.QueryItems(ctx, Query{
		IndexName:      TokenHashIndex,
		PartitionName:  attrTokenHash,
		PartitionValue: tokenHash,
		Limit:          1,
	})
	if err != nil {
		return entities.RefreshToken{}, err
	}
	if len(items) == 0 {
		return entities.RefreshToken{}, errors.NewNotFoundError("refresh token")
	}
	var item refreshTokenItem
	if err := unmarshalItem(items[0], &item); err != nil {
		return entities.RefreshToken{}, err
	}
	return item.toDomain()
}

// DeleteRefreshToken revokes one token
func (r *AuthRepository) DeleteRefreshToken(ctx context.Context, userID valueobjects.UserID, tokenHash string) error {
	pk, err := keys.UserPK(userID)
	if err != nil {
		return err
	}
	sk, err := keys.RefreshTokenSK(tokenHash)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// DeleteAllRefreshTokens revokes every session of a user
func (r *AuthRepository) DeleteAllRefreshTokens(ctx context.Context, userID valueobjects.UserID) error {
	pk, err := keys.UserPK(userID)
	if err != nil {
		return err
	}
	items, err := queryAll(ctx, r.store, Query{
		PartitionName:  attrPK,
		PartitionValue: pk,
		SortName:       attrSK,
		SortPrefix:     keys.PrefixRefreshToken + keys.Delimiter,
	})
	if err != nil {
		return err
	}
	toDelete := make([]Key, 0, len(items))
	for _, item := range items {
		toDelete = append(toDelete, Key{PK: stringAttr(item, attrPK), SK: stringAttr(item, attrSK)})
	}
	if len(toDelete) == 0 {
		return nil
	}
	return r.store.BatchWriteItems(ctx, nil, toDelete)
}

// SaveVerificationCode writes a phone verification code
func (r *AuthRepository) SaveVerificationCode(ctx context.Context, v entities.VerificationCode) error {
	item, err := newVerificationItem(v)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// GetVerificationCode reads a pending verification code for a phone number
func (r *AuthRepository) GetVerificationCode(ctx context.Context, userID valueobjects.UserID, phone string) (entities.VerificationCode, error) {
	pk, err := keys.UserPK(userID)
	if err != nil {
		return entities.VerificationCode{}, err
	}
	sk, err := keys.VerificationSK(phone)
	if err != nil {
		return entities.VerificationCode{}, err
	}
	raw, err := r.store.GetItem(ctx, Key{PK: pk, SK: sk})
	if err != nil {
		return entities.VerificationCode{}, err
	}
	if raw == nil {
		return entities.VerificationCode{}, errors.NewNotFoundError("verification code")
	}
	var item verificationItem
	if err := unmarshalItem(raw, &item); err != nil {
		return entities.VerificationCode{}, err
	}
	return item.toDomain()
}

// DeleteVerificationCode removes a verification code once confirmed
func (r *AuthRepository) DeleteVerificationCode(ctx context.Context, userID valueobjects.UserID, phone string) error {
	pk, err := keys.UserPK(userID)
	if err != nil {
		return err
	}
	sk, err := keys.VerificationSK(phone)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}

// SavePasswordReset writes a password reset request
func (r *AuthRepository) SavePasswordReset(ctx context.Context, p entities.PasswordResetRequest) error {
	item, err := newPasswordResetItem(p)
	if err != nil {
		return err
	}
	raw, err := marshalItem(item)
	if err != nil {
		return err
	}
	return r.store.PutItem(ctx, raw, PutCondition{})
}

// GetPasswordResetByHash looks a reset request up by token hash
func (r *AuthRepository) GetPasswordResetByHash(ctx context.Context, tokenHash string) (entities.PasswordResetRequest, error) {
	items, _, err := r.store.QueryItems(ctx, Query{
		IndexName:      TokenHashIndex,
		PartitionName:  attrTokenHash,
		PartitionValue: tokenHash,
		Limit:          1,
	})
	if err != nil {
		return entities.PasswordResetRequest{}, err
	}
	if len(items) == 0 {
		return entities.PasswordResetRequest{}, errors.NewNotFoundError("password reset request")
	}
	var item passwordResetItem
	if err := unmarshalItem(items[0], &item); err != nil {
		return entities.PasswordResetRequest{}, err
	}
	return item.toDomain()
}

// DeletePasswordReset removes a reset request once used
func (r *AuthRepository) DeletePasswordReset(ctx context.Context, userID valueobjects.UserID, email string) error {
	pk, err := keys.UserPK(userID)
	if err != nil {
		return err
	}
	sk, err := keys.PasswordResetSK(email)
	if err != nil {
		return err
	}
	return r.store.DeleteItem(ctx, Key{PK: pk, SK: sk})
}
