package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inviter-backend/pkg/errors"
)

func TestPageTokenRoundTrip(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		attrPK:     &types.AttributeValueMemberS{Value: "GROUP#abc"},
		attrSK:     &types.AttributeValueMemberS{Value: "HANGOUT#def"},
		attrGSI2PK: &types.AttributeValueMemberS{Value: "GROUP#abc"},
		attrGSI2SK: &types.AttributeValueMemberN{Value: "1724068800"},
	}

	token, err := encodePageToken(lastKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := decodePageToken(token)
	require.NoError(t, err)

	assert.Equal(t, "GROUP#abc", stringAttr(decoded, attrPK))
	assert.Equal(t, "HANGOUT#def", stringAttr(decoded, attrSK))
	assert.Equal(t, int64(1724068800), numberAttr(decoded, attrGSI2SK))
}

func TestEmptyLastKeyYieldsEmptyToken(t *testing.T) {
	token, err := encodePageToken(nil)
	require.NoError(t, err)
	assert.Empty(t, token)

	key, err := decodePageToken("")
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestDecodePageTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"not base64 at all!!", "bm90LWpzb24"} {
		_, err := decodePageToken(token)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidPaginationToken(err), "token %q", token)
	}
}

func TestPageHasMore(t *testing.T) {
	assert.False(t, Page[int]{Items: []int{1}}.HasMore())
	assert.True(t, Page[int]{Items: []int{1}, NextToken: "abc"}.HasMore())
}
