package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"recurring-orders/domain/keys"
	"recurring-orders/infrastructure/persistence/abstractions"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store is an in-memory ItemStore with the same conditional-write semantics
// as the DynamoDB store. Conditions are checked and applied under one lock,
// so concurrent conditional puts on the same key admit exactly one winner.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[abstractions.Key]abstractions.Item
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		tables: make(map[string]map[abstractions.Key]abstractions.Item),
	}
}

// GetItem returns a copy of the stored item, or nil
func (s *Store) GetItem(ctx context.Context, table string, key abstractions.Key) (abstractions.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.tables[table][key]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

// PutItem stores item, honouring IfNotExists
func (s *Store) PutItem(ctx context.Context, table string, item abstractions.Item, opts abstractions.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := keyOf(item)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		rows = make(map[abstractions.Key]abstractions.Item)
		s.tables[table] = rows
	}

	if _, exists := rows[key]; exists && opts.IfNotExists {
		return abstractions.ErrConditionFailed
	}

	rows[key] = copyItem(item)
	return nil
}

// DeleteItem removes the item, honouring IfEquals. Deleting a missing item
// without conditions is not an error.
func (s *Store) DeleteItem(ctx context.Context, table string, key abstractions.Key, opts abstractions.DeleteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.tables[table][key]
	if len(opts.IfEquals) > 0 {
		if !exists {
			return abstractions.ErrConditionFailed
		}
		for attr, want := range opts.IfEquals {
			if got, ok := stringAttr(item, attr); !ok || got != want {
				return abstractions.ErrConditionFailed
			}
		}
	}

	if exists {
		delete(s.tables[table], key)
	}
	return nil
}

// Query scans one partition. Results come back in sort key order, like DynamoDB.
func (s *Store) Query(ctx context.Context, q abstractions.Query) ([]abstractions.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []abstractions.Item
	for key, item := range s.tables[q.Table] {
		if key.HashKey != q.HashKey {
			continue
		}
		if q.SortKeyPrefix != "" && !strings.HasPrefix(key.RangeKey, q.SortKeyPrefix) {
			continue
		}
		if !matchesAll(item, q.Filters) {
			continue
		}
		matched = append(matched, copyItem(item))
	}

	sortByRangeKey(matched)

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Len returns the number of items in table
func (s *Store) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func matchesAll(item abstractions.Item, filters []abstractions.Filter) bool {
	for _, f := range filters {
		value, present := stringAttr(item, f.Field)
		if !f.Matches(value, present) {
			return false
		}
	}
	return true
}

func keyOf(item abstractions.Item) (abstractions.Key, error) {
	hk, ok := stringAttr(item, keys.AttrHashKey)
	if !ok || hk == "" {
		return abstractions.Key{}, fmt.Errorf("item is missing %s", keys.AttrHashKey)
	}
	rk, ok := stringAttr(item, keys.AttrRangeKey)
	if !ok || rk == "" {
		return abstractions.Key{}, fmt.Errorf("item is missing %s", keys.AttrRangeKey)
	}
	return abstractions.Key{HashKey: hk, RangeKey: rk}, nil
}

func stringAttr(item abstractions.Item, name string) (string, bool) {
	av, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return av.Value, true
}

// copyItem copies the top-level map; attribute values are never mutated in place
func copyItem(item abstractions.Item) abstractions.Item {
	out := make(abstractions.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func sortByRangeKey(items []abstractions.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, _ := stringAttr(items[i], keys.AttrRangeKey)
		b, _ := stringAttr(items[j], keys.AttrRangeKey)
		return a < b
	})
}
