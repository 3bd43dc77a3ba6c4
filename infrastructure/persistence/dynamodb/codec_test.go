package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func TestDecodeItemUsesTypeTag(t *testing.T) {
	group := testGroup(t, "climbing crew")
	item, err := newGroupItem(group)
	require.NoError(t, err)
	raw, err := marshalItem(item)
	require.NoError(t, err)

	decoded, err := DecodeItem(raw)
	require.NoError(t, err)

	got, ok := decoded.Value.(*entities.Group)
	require.True(t, ok)
	assert.Equal(t, group.ID(), got.ID())
	assert.Equal(t, "climbing crew", got.Name())
}

func TestDecodeItemFallsBackToSortKeyPattern(t *testing.T) {
	h := testHangout(t, "bouldering", time.Now().Add(time.Hour))
	pointer := entities.HangoutPointer{
		GroupID:   h.GroupIDs()[0],
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}
	ApplyHangoutToPointer(h, &pointer)
	item, err := newHangoutPointerItem(pointer)
	require.NoError(t, err)
	raw, err := marshalItem(item)
	require.NoError(t, err)

	// legacy rows predate the type tag
	delete(raw, attrItemType)

	decoded, err := DecodeItem(raw)
	require.NoError(t, err)

	got, ok := decoded.Value.(entities.HangoutPointer)
	require.True(t, ok)
	assert.Equal(t, h.ID(), got.HangoutID)
	assert.Equal(t, h.Title(), got.Title)
}

func TestDecodeItemDisambiguatesMetadataByPartition(t *testing.T) {
	h := testHangout(t, "lake day", time.Now().Add(time.Hour))
	item, err := newHangoutItem(h)
	require.NoError(t, err)
	raw, err := marshalItem(item)
	require.NoError(t, err)
	delete(raw, attrItemType)

	decoded, err := DecodeItem(raw)
	require.NoError(t, err)

	_, ok := decoded.Value.(*entities.Hangout)
	assert.True(t, ok)
}

func TestDecodeItemRejectsUnknownShape(t *testing.T) {
	raw := map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: "GROUP#" + valueobjects.NewGroupID().String()},
		attrSK: &types.AttributeValueMemberS{Value: "GADGET#42"},
	}

	_, err := DecodeItem(raw)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownItemShape(err))
}
