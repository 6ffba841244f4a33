package abstractions

import (
	"context"
	"errors"
	"strings"

	"recurring-orders/domain/keys"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConditionFailed is returned by conditional writes whose condition did not hold
var ErrConditionFailed = errors.New("conditional check failed")

// Item is a stored record as DynamoDB attribute values
type Item = map[string]types.AttributeValue

// Key is the composite primary key of an item
type Key struct {
	HashKey  string
	RangeKey string
}

// Item returns the key as attribute values
func (k Key) Item() Item {
	return Item{
		keys.AttrHashKey:  &types.AttributeValueMemberS{Value: k.HashKey},
		keys.AttrRangeKey: &types.AttributeValueMemberS{Value: k.RangeKey},
	}
}

// ItemStore is the key-value store the repositories are written against.
// Every call may block on the network and honours ctx.
type ItemStore interface {
	// GetItem returns nil, nil when no item has the key
	GetItem(ctx context.Context, table string, key Key) (Item, error)

	// PutItem writes item; with IfNotExists it fails with ErrConditionFailed
	// when an item with the same key is already stored
	PutItem(ctx context.Context, table string, item Item, opts PutOptions) error

	// DeleteItem removes the item; with IfEquals it fails with ErrConditionFailed
	// unless every listed attribute holds the given string value
	DeleteItem(ctx context.Context, table string, key Key, opts DeleteOptions) error

	// Query returns the items of one partition that match the sort key prefix
	// and every filter
	Query(ctx context.Context, q Query) ([]Item, error)
}

// PutOptions controls conditional puts
type PutOptions struct {
	IfNotExists bool
}

// DeleteOptions controls conditional deletes
type DeleteOptions struct {
	IfEquals map[string]string
}

// Query represents a partition-scoped query
type Query struct {
	Table string

	// HashKey selects the partition
	HashKey string

	// SortKeyPrefix, when set, becomes a begins_with key condition
	SortKeyPrefix string

	// Filters are applied after the key condition and combined with AND
	Filters []Filter

	// Limit caps the number of matching items returned; 0 means all
	Limit int
}

// Filter represents a query filter condition on a string attribute.
// Values are always sent as bound parameters.
type Filter struct {
	Field    string
	Operator FilterOperator
	Value    string
}

// FilterOperator defines the type of comparison
type FilterOperator string

const (
	OpEqual         FilterOperator = "eq"
	OpNotEqual      FilterOperator = "ne"
	OpContains      FilterOperator = "contains"
	OpStartsWith    FilterOperator = "starts_with"
	OpNotStartsWith FilterOperator = "not_starts_with"
)

// Matches evaluates the filter against a string attribute value.
// A missing attribute only satisfies the negated operators.
func (f Filter) Matches(value string, present bool) bool {
	switch f.Operator {
	case OpEqual:
		return present && value == f.Value
	case OpNotEqual:
		return !present || value != f.Value
	case OpContains:
		return present && strings.Contains(value, f.Value)
	case OpStartsWith:
		return present && strings.HasPrefix(value, f.Value)
	case OpNotStartsWith:
		return !present || !strings.HasPrefix(value, f.Value)
	}
	return false
}
