package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"inviter-backend/pkg/errors"
)

// Page is one page of a range query. NextToken is an opaque cursor; clients
// echo it back verbatim to fetch the next page and must not parse it.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// HasMore reports whether another page exists
func (p Page[T]) HasMore() bool { return p.NextToken != "" }

// encodePageToken wraps DynamoDB's last evaluated key into an opaque cursor.
// An empty key means the query is exhausted and yields an empty token.
func encodePageToken(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}
	var plain map[string]interface{}
	if err := attributevalue.UnmarshalMap(lastKey, &plain); err != nil {
		return "", errors.NewRepositoryError("EncodePageToken", err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", errors.NewRepositoryError("EncodePageToken", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodePageToken reverses encodePageToken. A token that does not decode
// cleanly is a client error, not a server fault.
func decodePageToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.NewInvalidPaginationTokenError("pagination token is not valid base64")
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, errors.NewInvalidPaginationTokenError("pagination token payload is malformed")
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, errors.NewInvalidPaginationTokenError("pagination token payload is malformed")
	}
	return key, nil
}
