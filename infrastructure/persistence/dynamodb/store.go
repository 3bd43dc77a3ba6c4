package dynamodb

import (
	"context"
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"inviter-backend/pkg/errors"
)

// Attribute names shared by every item in the planner table
const (
	attrPK       = "PK"
	attrSK       = "SK"
	attrItemType = "ItemType"
	attrVersion  = "Version"
)

// maxTransactionItems is the per-transaction item cap. Composite writes
// that would exceed it fail outright; chunking would reintroduce the
// partial-write risk transactions exist to prevent.
const maxTransactionItems = 25

// ErrConditionFailed is returned by conditional writes when the condition
// did not hold. The optimistic-retry loop keys off it.
var ErrConditionFailed = stderrors.New("conditional write failed")

// Key addresses one item in the table
type Key struct {
	PK string
	SK string
}

// Query describes a single-partition range query, on the table itself or on
// one of its secondary indexes.
type Query struct {
	// IndexName selects a secondary index; empty queries the table
	IndexName string
	// PartitionName/PartitionValue form the partition-key equality condition
	PartitionName  string
	PartitionValue string
	// SortName names the sort-key attribute when a sort condition is set
	SortName string
	// SortPrefix applies begins_with on a string sort key
	SortPrefix string
	// SortAfter / SortBefore apply >, < on a numeric sort key (epoch seconds)
	SortAfter  *int64
	SortBefore *int64
	// Limit caps the page size; zero means no explicit limit
	Limit int32
	// Descending walks the index backward
	Descending bool
	// StartKey resumes a paginated query from a previous page's last key
	StartKey map[string]types.AttributeValue
}

// PutCondition guards a put. The zero value is unconditional; IfAbsent
// requires the item not to exist yet, IfVersionEquals requires the stored
// Version attribute to match.
type PutCondition struct {
	IfAbsent        bool
	IfVersionEquals *int64
}

func (c PutCondition) unconditional() bool {
	return !c.IfAbsent && c.IfVersionEquals == nil
}

// Update describes an in-place item update. Set replaces attributes, Add
// applies a native atomic numeric delta, ConditionEqual requires attribute
// equality (version checks), ConditionExists requires the item to exist.
type Update struct {
	Set             map[string]types.AttributeValue
	Add             map[string]int64
	ConditionEqual  map[string]types.AttributeValue
	ConditionExists bool
}

// TransactOp is one operation inside an all-or-nothing transaction
type TransactOp struct {
	Put    *TransactPut
	Update *TransactUpdate
	Delete *TransactDelete
}

// TransactPut writes a full item inside a transaction
type TransactPut struct {
	Item      map[string]types.AttributeValue
	Condition PutCondition
}

// TransactUpdate applies an Update inside a transaction
type TransactUpdate struct {
	Key    Key
	Update Update
}

// TransactDelete deletes an item inside a transaction
type TransactDelete struct {
	Key Key
}

// Store is the key-value boundary the repositories are built on: get/put/
// query-by-prefix, conditional and atomic updates, bounded all-or-nothing
// transactions, and best-effort batch reads/writes.
type Store interface {
	GetItem(ctx context.Context, key Key) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, item map[string]types.AttributeValue, condition PutCondition) error
	QueryItems(ctx context.Context, q Query) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error)
	UpdateItem(ctx context.Context, key Key, update Update) (map[string]types.AttributeValue, error)
	DeleteItem(ctx context.Context, key Key) error
	TransactWrite(ctx context.Context, ops []TransactOp) error
	BatchGetItems(ctx context.Context, keys []Key) ([]map[string]types.AttributeValue, error)
	BatchWriteItems(ctx context.Context, puts []map[string]types.AttributeValue, deletes []Key) error
}

// DynamoStore implements Store against a DynamoDB table
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStore creates a Store backed by DynamoDB
func NewStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// GetItem reads one item; absent items return nil, not an error
func (s *DynamoStore) GetItem(ctx context.Context, key Key) (map[string]types.AttributeValue, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyAttributes(key),
	})
	if err != nil {
		return nil, errors.NewRepositoryError("GetItem", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return out.Item, nil
}

// PutItem writes a full item, optionally guarded by a condition
func (s *DynamoStore) PutItem(ctx context.Context, item map[string]types.AttributeValue, condition PutCondition) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}
	if err := applyPutCondition(input, condition); err != nil {
		return err
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if stderrors.As(err, &ccf) {
			return ErrConditionFailed
		}
		return errors.NewRepositoryError("PutItem", err)
	}
	return nil
}

// QueryItems runs one page of a single-partition range query and returns
// the raw items plus the last evaluated key for resumption
func (s *DynamoStore) QueryItems(ctx context.Context, q Query) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	keyCond := expression.Key(q.PartitionName).Equal(expression.Value(q.PartitionValue))
	switch {
	case q.SortPrefix != "":
		keyCond = keyCond.And(expression.Key(q.SortName).BeginsWith(q.SortPrefix))
	case q.SortAfter != nil && q.SortBefore != nil:
		keyCond = keyCond.And(expression.Key(q.SortName).Between(expression.Value(*q.SortAfter), expression.Value(*q.SortBefore)))
	case q.SortAfter != nil:
		keyCond = keyCond.And(expression.Key(q.SortName).GreaterThan(expression.Value(*q.SortAfter)))
	case q.SortBefore != nil:
		keyCond = keyCond.And(expression.Key(q.SortName).LessThan(expression.Value(*q.SortBefore)))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, nil, errors.NewRepositoryError("Query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Descending),
		ExclusiveStartKey:         q.StartKey,
	}
	if q.IndexName != "" {
		input.IndexName = aws.String(q.IndexName)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, nil, errors.NewRepositoryError("Query", err)
	}
	return out.Items, out.LastEvaluatedKey, nil
}

// UpdateItem applies set/add deltas with optional conditions and returns
// the new item
func (s *DynamoStore) UpdateItem(ctx context.Context, key Key, update Update) (map[string]types.AttributeValue, error) {
	expr, err := buildUpdateExpression(update)
	if err != nil {
		return nil, errors.NewRepositoryError("UpdateItem", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       keyAttributes(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if stderrors.As(err, &ccf) {
			return nil, ErrConditionFailed
		}
		return nil, errors.NewRepositoryError("UpdateItem", err)
	}
	return out.Attributes, nil
}

// DeleteItem removes one item; deleting an absent item is not an error
func (s *DynamoStore) DeleteItem(ctx context.Context, key Key) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyAttributes(key),
	})
	if err != nil {
		return errors.NewRepositoryError("DeleteItem", err)
	}
	return nil
}

// TransactWrite executes up to maxTransactionItems operations atomically
func (s *DynamoStore) TransactWrite(ctx context.Context, ops []TransactOp) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) > maxTransactionItems {
		return errors.NewTransactionSizeExceededError(len(ops), maxTransactionItems)
	}

	items := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		item, err := s.transactItem(op)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if stderrors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return ErrConditionFailed
				}
			}
		}
		return errors.NewRepositoryError("TransactWrite", err)
	}
	return nil
}

func (s *DynamoStore) transactItem(op TransactOp) (types.TransactWriteItem, error) {
	switch {
	case op.Put != nil:
		put := &types.Put{
			TableName: aws.String(s.tableName),
			Item:      op.Put.Item,
		}
		expr, err := buildPutCondition(op.Put.Condition)
		if err != nil {
			return types.TransactWriteItem{}, err
		}
		if expr != nil {
			put.ConditionExpression = expr.Condition()
			put.ExpressionAttributeNames = expr.Names()
			put.ExpressionAttributeValues = expr.Values()
		}
		return types.TransactWriteItem{Put: put}, nil

	case op.Update != nil:
		expr, err := buildUpdateExpression(op.Update.Update)
		if err != nil {
			return types.TransactWriteItem{}, errors.NewRepositoryError("TransactWrite", err)
		}
		return types.TransactWriteItem{Update: &types.Update{
			TableName:                 aws.String(s.tableName),
			Key:                       keyAttributes(op.Update.Key),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}}, nil

	case op.Delete != nil:
		return types.TransactWriteItem{Delete: &types.Delete{
			TableName: aws.String(s.tableName),
			Key:       keyAttributes(op.Delete.Key),
		}}, nil
	}
	return types.TransactWriteItem{}, errors.NewInternalError("empty transact operation")
}

// BatchGetItems reads many items in chunks of 100; no cross-item atomicity
func (s *DynamoStore) BatchGetItems(ctx context.Context, keys []Key) ([]map[string]types.AttributeValue, error) {
	const chunkSize = 100

	var results []map[string]types.AttributeValue
	for i := 0; i < len(keys); i += chunkSize {
		end := i + chunkSize
		if end > len(keys) {
			end = len(keys)
		}

		keyList := make([]map[string]types.AttributeValue, 0, end-i)
		for _, k := range keys[i:end] {
			keyList = append(keyList, keyAttributes(k))
		}

		out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				s.tableName: {Keys: keyList},
			},
		})
		if err != nil {
			return nil, errors.NewRepositoryError("BatchGetItem", err)
		}
		results = append(results, out.Responses[s.tableName]...)
	}
	return results, nil
}

// BatchWriteItems writes and deletes in chunks of 25; no cross-item atomicity
func (s *DynamoStore) BatchWriteItems(ctx context.Context, puts []map[string]types.AttributeValue, deletes []Key) error {
	requests := make([]types.WriteRequest, 0, len(puts)+len(deletes))
	for _, item := range puts {
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	for _, k := range deletes {
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: keyAttributes(k)}})
	}

	const batchSize = 25
	for i := 0; i < len(requests); i += batchSize {
		end := i + batchSize
		if end > len(requests) {
			end = len(requests)
		}

		_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests[i:end],
			},
		})
		if err != nil {
			return errors.NewRepositoryError("BatchWriteItem", err)
		}
	}
	return nil
}

// queryAll drains a query across pages
func queryAll(ctx context.Context, store Store, q Query) ([]map[string]types.AttributeValue, error) {
	var all []map[string]types.AttributeValue
	for {
		items, lastKey, err := store.QueryItems(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if lastKey == nil {
			return all, nil
		}
		q.StartKey = lastKey
	}
}

// buildPutCondition turns a PutCondition into a built expression, or nil
// for an unconditional put
func buildPutCondition(condition PutCondition) (*expression.Expression, error) {
	if condition.unconditional() {
		return nil, nil
	}

	var cond expression.ConditionBuilder
	hasCond := false
	if condition.IfAbsent {
		cond = expression.Name(attrPK).AttributeNotExists()
		hasCond = true
	}
	if condition.IfVersionEquals != nil {
		eq := expression.Name(attrVersion).Equal(expression.Value(*condition.IfVersionEquals))
		if hasCond {
			cond = cond.And(eq)
		} else {
			cond = eq
		}
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, errors.NewRepositoryError("PutItem", err)
	}
	return &expr, nil
}

func applyPutCondition(input *dynamodb.PutItemInput, condition PutCondition) error {
	expr, err := buildPutCondition(condition)
	if err != nil {
		return err
	}
	if expr != nil {
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	return nil
}

func keyAttributes(key Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: key.PK},
		attrSK: &types.AttributeValueMemberS{Value: key.SK},
	}
}

func buildUpdateExpression(update Update) (expression.Expression, error) {
	var upd expression.UpdateBuilder
	for name, value := range update.Set {
		upd = upd.Set(expression.Name(name), expression.Value(value))
	}
	for name, delta := range update.Add {
		upd = upd.Add(expression.Name(name), expression.Value(delta))
	}

	builder := expression.NewBuilder().WithUpdate(upd)

	var cond expression.ConditionBuilder
	hasCond := false
	if update.ConditionExists {
		cond = expression.Name(attrPK).AttributeExists()
		hasCond = true
	}
	for name, value := range update.ConditionEqual {
		eq := expression.Name(name).Equal(expression.Value(value))
		if hasCond {
			cond = cond.And(eq)
		} else {
			cond = eq
			hasCond = true
		}
	}
	if hasCond {
		builder = builder.WithCondition(cond)
	}

	return builder.Build()
}
