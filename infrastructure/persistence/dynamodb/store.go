package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"recurring-orders/domain/keys"
	"recurring-orders/infrastructure/persistence/abstractions"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Client defines the DynamoDB operations the store needs, making it testable.
// *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements abstractions.ItemStore on DynamoDB
type Store struct {
	client      Client
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewStore creates a new Store. callTimeout bounds every request; zero disables it.
func NewStore(client Client, callTimeout time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client:      client,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// GetItem retrieves an item by its primary key
func (s *Store) GetItem(ctx context.Context, table string, key abstractions.Key) (abstractions.Item, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key.Item(),
	})
	if err != nil {
		return nil, s.translate("GetItem", err)
	}

	if result.Item == nil {
		return nil, nil
	}
	return result.Item, nil
}

// PutItem writes an item, optionally only when its key is not yet taken
func (s *Store) PutItem(ctx context.Context, table string, item abstractions.Item, opts abstractions.PutOptions) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	input := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}

	if opts.IfNotExists {
		expr, err := expression.NewBuilder().
			WithCondition(expression.Name(keys.AttrRangeKey).AttributeNotExists()).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return s.translate("PutItem", err)
	}
	return nil
}

// DeleteItem removes an item, optionally only when the listed attributes match
func (s *Store) DeleteItem(ctx context.Context, table string, key abstractions.Key, opts abstractions.DeleteOptions) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key.Item(),
	}

	if len(opts.IfEquals) > 0 {
		attrs := make([]string, 0, len(opts.IfEquals))
		for attr := range opts.IfEquals {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)

		conds := make([]expression.ConditionBuilder, 0, len(attrs))
		for _, attr := range attrs {
			conds = append(conds, expression.Name(attr).Equal(expression.Value(opts.IfEquals[attr])))
		}

		expr, err := expression.NewBuilder().WithCondition(and(conds)).Build()
		if err != nil {
			return fmt.Errorf("failed to build expression: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		return s.translate("DeleteItem", err)
	}
	return nil
}

// Query reads one partition, following LastEvaluatedKey until every page is read
// or q.Limit matches are collected. DynamoDB applies filters after reading a
// page, so a page can be empty while later pages still match.
func (s *Store) Query(ctx context.Context, q abstractions.Query) ([]abstractions.Item, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	keyCond := expression.Key(keys.AttrHashKey).Equal(expression.Value(q.HashKey))
	if q.SortKeyPrefix != "" {
		keyCond = keyCond.And(expression.Key(keys.AttrRangeKey).BeginsWith(q.SortKeyPrefix))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if len(q.Filters) > 0 {
		conds := make([]expression.ConditionBuilder, 0, len(q.Filters))
		for _, f := range q.Filters {
			cond, err := filterCondition(f)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
		}
		builder = builder.WithFilter(and(conds))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(q.Table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []abstractions.Item
	pages := 0
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.translate("Query", err)
		}
		pages++
		items = append(items, page.Items...)

		if q.Limit > 0 && len(items) >= q.Limit {
			items = items[:q.Limit]
			break
		}
	}

	s.logger.Debug("Queried partition",
		zap.String("table", q.Table),
		zap.String("hashKey", q.HashKey),
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)

	return items, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

// translate maps a failed conditional check to abstractions.ErrConditionFailed
// and keeps everything else wrapped for the repository to classify.
func (s *Store) translate(operation string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%s: %w", operation, abstractions.ErrConditionFailed)
	}

	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		fields = append(fields,
			zap.String("errorCode", ae.ErrorCode()),
			zap.String("fault", ae.ErrorFault().String()),
		)
	}
	s.logger.Warn("DynamoDB request failed", fields...)

	return fmt.Errorf("dynamodb %s failed: %w", operation, err)
}

func filterCondition(f abstractions.Filter) (expression.ConditionBuilder, error) {
	name := expression.Name(f.Field)
	switch f.Operator {
	case abstractions.OpEqual:
		return name.Equal(expression.Value(f.Value)), nil
	case abstractions.OpNotEqual:
		return name.NotEqual(expression.Value(f.Value)), nil
	case abstractions.OpContains:
		return name.Contains(f.Value), nil
	case abstractions.OpStartsWith:
		return name.BeginsWith(f.Value), nil
	case abstractions.OpNotStartsWith:
		return expression.Not(name.BeginsWith(f.Value)), nil
	}
	return expression.ConditionBuilder{}, fmt.Errorf("unsupported filter operator %q", f.Operator)
}

func and(conds []expression.ConditionBuilder) expression.ConditionBuilder {
	cond := conds[0]
	for _, c := range conds[1:] {
		cond = cond.And(c)
	}
	return cond
}
