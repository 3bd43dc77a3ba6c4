package dynamodb

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"inviter-backend/pkg/errors"
)

// fakeStore is an in-memory Store with just enough DynamoDB semantics for
// the repository tests: conditional puts, atomic adds, single-partition
// range queries over the table and the secondary indexes, and all-or-nothing
// transactions.
type fakeStore struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// failPut, when set, is consulted before every put (direct or inside a
	// transaction) and can reject targeted writes to drive failure paths
	failPut func(item map[string]types.AttributeValue) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]map[string]types.AttributeValue)}
}

func storageKey(item map[string]types.AttributeValue) string {
	return stringAttr(item, attrPK) + "|" + stringAttr(item, attrSK)
}

func (f *fakeStore) seed(item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[storageKey(item)] = item
}

func (f *fakeStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *fakeStore) GetItem(_ context.Context, key Key) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[key.PK+"|"+key.SK], nil
}

func (f *fakeStore) PutItem(_ context.Context, item map[string]types.AttributeValue, condition PutCondition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putLocked(item, condition)
}

func (f *fakeStore) putLocked(item map[string]types.AttributeValue, condition PutCondition) error {
	if f.failPut != nil {
		if err := f.failPut(item); err != nil {
			return err
		}
	}
	existing, exists := f.items[storageKey(item)]
	if condition.IfAbsent && exists {
		return ErrConditionFailed
	}
	if condition.IfVersionEquals != nil {
		if !exists || numberAttr(existing, attrVersion) != *condition.IfVersionEquals {
			return ErrConditionFailed
		}
	}
	f.items[storageKey(item)] = item
	return nil
}

func (f *fakeStore) QueryItems(_ context.Context, q Query) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	partitionName := q.PartitionName
	sortName := q.SortName
	if sortName == "" {
		sortName = attrSK
	}

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if stringAttr(item, partitionName) != q.PartitionValue {
			continue
		}
		if q.SortPrefix != "" && !strings.HasPrefix(stringAttr(item, sortName), q.SortPrefix) {
			continue
		}
		if q.SortAfter != nil || q.SortBefore != nil {
			n := numberAttr(item, sortName)
			if q.SortAfter != nil && q.SortBefore != nil {
				if n < *q.SortAfter || n > *q.SortBefore {
					continue
				}
			} else if q.SortAfter != nil && n <= *q.SortAfter {
				continue
			} else if q.SortBefore != nil && n >= *q.SortBefore {
				continue
			}
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(a, b int) bool {
		less := lessBySortAttr(matched[a], matched[b], sortName)
		if q.Descending {
			return !less
		}
		return less
	})

	start := 0
	if q.StartKey != nil {
		marker := stringAttr(q.StartKey, attrPK) + "|" + stringAttr(q.StartKey, attrSK)
		for i, item := range matched {
			if storageKey(item) == marker {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	var lastKey map[string]types.AttributeValue
	if q.Limit > 0 && int32(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
		last := matched[len(matched)-1]
		lastKey = map[string]types.AttributeValue{
			attrPK: last[attrPK],
			attrSK: last[attrSK],
		}
		if q.IndexName != "" {
			lastKey[partitionName] = last[partitionName]
			lastKey[sortName] = last[sortName]
		}
	}
	return matched, lastKey, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, key Key, update Update) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateLocked(key, update)
}

func (f *fakeStore) updateLocked(key Key, update Update) (map[string]types.AttributeValue, error) {
	item, exists := f.items[key.PK+"|"+key.SK]
	if update.ConditionExists && !exists {
		return nil, ErrConditionFailed
	}
	for name, want := range update.ConditionEqual {
		if !exists || !attrEqual(item[name], want) {
			return nil, ErrConditionFailed
		}
	}
	// copy before mutating: a staged transaction shares item maps with its
	// rollback snapshot
	next := map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: key.PK},
		attrSK: &types.AttributeValueMemberS{Value: key.SK},
	}
	for name, value := range item {
		next[name] = value
	}
	for name, value := range update.Set {
		next[name] = value
	}
	for name, delta := range update.Add {
		next[name] = &types.AttributeValueMemberN{
			Value: strconv.FormatInt(numberAttr(next, name)+delta, 10),
		}
	}
	f.items[key.PK+"|"+key.SK] = next
	return next, nil
}

func (f *fakeStore) DeleteItem(_ context.Context, key Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key.PK+"|"+key.SK)
	return nil
}

func (f *fakeStore) TransactWrite(_ context.Context, ops []TransactOp) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) > maxTransactionItems {
		return errors.NewTransactionSizeExceededError(len(ops), maxTransactionItems)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// stage on a copy so a failed condition leaves nothing applied
	staged := make(map[string]map[string]types.AttributeValue, len(f.items))
	for k, v := range f.items {
		staged[k] = v
	}
	snapshot := f.items
	f.items = staged

	for _, op := range ops {
		var err error
		switch {
		case op.Put != nil:
			err = f.putLocked(op.Put.Item, op.Put.Condition)
		case op.Update != nil:
			_, err = f.updateLocked(op.Update.Key, op.Update.Update)
		case op.Delete != nil:
			delete(f.items, op.Delete.Key.PK+"|"+op.Delete.Key.SK)
		}
		if err != nil {
			f.items = snapshot
			return err
		}
	}
	return nil
}

func (f *fakeStore) BatchGetItems(_ context.Context, keys []Key) ([]map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]types.AttributeValue
	for _, k := range keys {
		if item, ok := f.items[k.PK+"|"+k.SK]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) BatchWriteItems(_ context.Context, puts []map[string]types.AttributeValue, deletes []Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range puts {
		f.items[storageKey(item)] = item
	}
	for _, k := range deletes {
		delete(f.items, k.PK+"|"+k.SK)
	}
	return nil
}

func numberAttr(item map[string]types.AttributeValue, name string) int64 {
	if n, ok := item[name].(*types.AttributeValueMemberN); ok {
		v, _ := strconv.ParseInt(n.Value, 10, 64)
		return v
	}
	return 0
}

func lessBySortAttr(a, b map[string]types.AttributeValue, sortName string) bool {
	if _, ok := a[sortName].(*types.AttributeValueMemberN); ok {
		return numberAttr(a, sortName) < numberAttr(b, sortName)
	}
	return stringAttr(a, sortName) < stringAttr(b, sortName)
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}
