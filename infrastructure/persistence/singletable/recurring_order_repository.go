package singletable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recurring-orders/application/ports"
	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/keys"
	"recurring-orders/infrastructure/persistence/abstractions"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"
)

// slotReleaseTimeout bounds the compensating delete, which runs even when the
// request context is already done
const slotReleaseTimeout = 2 * time.Second

// defaultSlotStaleAfter is how long a slot may point at a missing order before
// another create may reclaim it. It must exceed the longest order write, which
// the store timeout bounds.
const defaultSlotStaleAfter = time.Minute

// recurringOrderItem is the stored shape of a recurring order
type recurringOrderItem struct {
	HashKey   string `dynamodbav:"hash_key"`
	RangeKey  string `dynamodbav:"range_key"`
	Currency  string `dynamodbav:"currency"`
	Frequency string `dynamodbav:"frequency"`
	Amount    int64  `dynamodbav:"amount"`
	CreatedAt string `dynamodbav:"created_at,omitempty"`
}

// orderSlotItem reserves a currency/frequency pair for the order in OrderKey
type orderSlotItem struct {
	HashKey   string `dynamodbav:"hash_key"`
	RangeKey  string `dynamodbav:"range_key"`
	OrderKey  string `dynamodbav:"order_key"`
	ClaimedAt string `dynamodbav:"claimed_at"`
}

// RecurringOrderRepository stores recurring orders in their owner's partition
type RecurringOrderRepository struct {
	store      abstractions.ItemStore
	schema     RecurringOrderSchema
	logger     *zap.Logger
	staleAfter time.Duration
	now        func() time.Time
}

// RecurringOrderOption configures a RecurringOrderRepository
type RecurringOrderOption func(*RecurringOrderRepository)

// WithSlotStaleAfter sets how old an orphaned slot must be before it is reclaimed
func WithSlotStaleAfter(d time.Duration) RecurringOrderOption {
	return func(r *RecurringOrderRepository) {
		if d > 0 {
			r.staleAfter = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) RecurringOrderOption {
	return func(r *RecurringOrderRepository) {
		if now != nil {
			r.now = now
		}
	}
}

var _ ports.RecurringOrderRepository = (*RecurringOrderRepository)(nil)

// NewRecurringOrderRepository creates a new repository over store
func NewRecurringOrderRepository(store abstractions.ItemStore, tableName string, logger *zap.Logger, opts ...RecurringOrderOption) *RecurringOrderRepository {
	r := &RecurringOrderRepository{
		store:      store,
		schema:     RecurringOrderSchema{Table: tableName},
		logger:     logger,
		staleAfter: defaultSlotStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores order unless its owner already has one for the same
// currency/frequency pair.
//
// The partition query only rejects duplicates that are already visible. Two
// concurrent creates can both pass it, so the pair is claimed with a
// conditional put on a guard item whose key is derived from the pair alone.
// Only one of them can win that put. A slot left behind by a create whose
// order write and release both failed is reclaimed once it is stale.
func (r *RecurringOrderRepository) Create(ctx context.Context, order *entities.RecurringOrder) (*entities.RecurringOrder, error) {
	if order == nil {
		return nil, pkgerrors.NewValidationError("recurring order is required")
	}

	table := r.schema.TableName()
	pk := r.schema.PartitionKeyOf(order)
	sk := r.schema.SortKeyOf(order)
	slotKey, err := r.schema.SlotKeyOf(order)
	if err != nil {
		return nil, err
	}

	existing, err := r.store.Query(ctx, abstractions.Query{
		Table:         table,
		HashKey:       pk,
		SortKeyPrefix: keys.RecurringOrderPrefix,
		Filters: []abstractions.Filter{
			{Field: keys.AttrRangeKey, Operator: abstractions.OpContains, Value: order.Currency().String()},
			{Field: keys.AttrRangeKey, Operator: abstractions.OpContains, Value: order.Frequency().String()},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, r.storeError("query", err, order)
	}
	if len(existing) > 0 {
		r.logger.Debug("Recurring order already exists",
			zap.String("hashKey", pk),
			zap.String("discriminant", order.Discriminant()),
		)
		return nil, conflictError(order)
	}

	slot, err := attributevalue.MarshalMap(orderSlotItem{
		HashKey:   pk,
		RangeKey:  slotKey,
		OrderKey:  sk,
		ClaimedAt: r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal order slot").WithCause(err)
	}
	if err := r.store.PutItem(ctx, table, slot, abstractions.PutOptions{IfNotExists: true}); err != nil {
		if !errors.Is(err, abstractions.ErrConditionFailed) {
			return nil, r.storeError("claim slot", err, order)
		}
		reclaimed, rerr := r.reclaimSlot(ctx, pk, slotKey)
		if rerr != nil {
			return nil, r.storeError("reclaim slot", rerr, order)
		}
		if !reclaimed {
			return nil, conflictError(order)
		}
		if err := r.store.PutItem(ctx, table, slot, abstractions.PutOptions{IfNotExists: true}); err != nil {
			return nil, r.storeError("claim slot", err, order)
		}
	}

	item, err := attributevalue.MarshalMap(toRecurringOrderItem(order))
	if err != nil {
		r.releaseSlot(ctx, pk, slotKey, sk)
		return nil, pkgerrors.NewInternalError("failed to marshal recurring order").WithCause(err)
	}
	if err := r.store.PutItem(ctx, table, item, abstractions.PutOptions{IfNotExists: true}); err != nil {
		r.releaseSlot(ctx, pk, slotKey, sk)
		return nil, r.storeError("put", err, order)
	}

	r.logger.Info("Recurring order created",
		zap.String("hashKey", pk),
		zap.String("rangeKey", sk),
		zap.Int64("amount", order.Amount().Cents()),
	)

	return order, nil
}

// releaseSlot frees a slot this request claimed but could not fill. The delete
// only succeeds while the slot still points at orderKey.
func (r *RecurringOrderRepository) releaseSlot(ctx context.Context, pk, slotKey, orderKey string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotReleaseTimeout)
	defer cancel()

	err := r.store.DeleteItem(ctx, r.schema.TableName(),
		abstractions.Key{HashKey: pk, RangeKey: slotKey},
		abstractions.DeleteOptions{IfEquals: map[string]string{"order_key": orderKey}},
	)
	if err != nil {
		r.logger.Error("Failed to release order slot",
			zap.String("hashKey", pk),
			zap.String("slotKey", slotKey),
			zap.Error(err),
		)
	}
}

// reclaimSlot deletes the slot at slotKey when the order it names was never
// written and the claim is older than staleAfter. It reports whether the slot
// is free to claim again.
func (r *RecurringOrderRepository) reclaimSlot(ctx context.Context, pk, slotKey string) (bool, error) {
	table := r.schema.TableName()

	item, err := r.store.GetItem(ctx, table, abstractions.Key{HashKey: pk, RangeKey: slotKey})
	if err != nil {
		return false, err
	}
	if item == nil {
		return true, nil
	}

	var slot orderSlotItem
	if err := attributevalue.UnmarshalMap(item, &slot); err != nil {
		r.logger.Warn("Unreadable order slot",
			zap.String("hashKey", pk),
			zap.String("slotKey", slotKey),
			zap.Error(err),
		)
		return false, nil
	}

	owner, err := r.store.GetItem(ctx, table, abstractions.Key{HashKey: pk, RangeKey: slot.OrderKey})
	if err != nil {
		return false, err
	}
	if owner != nil {
		return false, nil
	}

	// An unparsable timestamp yields the zero time, which is always stale.
	claimedAt, _ := time.Parse(time.RFC3339Nano, slot.ClaimedAt)
	if r.now().Sub(claimedAt) < r.staleAfter {
		return false, nil
	}

	err = r.store.DeleteItem(ctx, table,
		abstractions.Key{HashKey: pk, RangeKey: slotKey},
		abstractions.DeleteOptions{IfEquals: map[string]string{"order_key": slot.OrderKey}},
	)
	if errors.Is(err, abstractions.ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	r.logger.Warn("Reclaimed orphaned order slot",
		zap.String("hashKey", pk),
		zap.String("slotKey", slotKey),
		zap.String("orderKey", slot.OrderKey),
		zap.String("claimedAt", slot.ClaimedAt),
	)
	return true, nil
}

// ListByUser returns every recurring order in the user's partition
func (r *RecurringOrderRepository) ListByUser(ctx context.Context, userID string) ([]*entities.RecurringOrder, error) {
	id, err := valueobjects.NewUserID(userID)
	if err != nil {
		return nil, err
	}
	pk := keys.UserPartitionKey(id.String())

	items, err := r.store.Query(ctx, abstractions.Query{
		Table:   r.schema.TableName(),
		HashKey: pk,
		Filters: []abstractions.Filter{
			{Field: keys.AttrRangeKey, Operator: abstractions.OpNotEqual, Value: keys.UserSortKey},
			{Field: keys.AttrRangeKey, Operator: abstractions.OpNotStartsWith, Value: keys.OrderSlotPrefix},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewStoreUnavailableError("list recurring orders", err)
	}

	orders := make([]*entities.RecurringOrder, 0, len(items))
	for _, item := range items {
		if order := r.decode(item); order != nil {
			orders = append(orders, order)
		}
	}

	if len(orders) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("recurring orders for user %s", id))
	}

	return orders, nil
}

// decode reads the item's sort key first and only unmarshals recurring orders.
// Other kinds and unreadable orders yield nil and are logged, so one bad item
// does not hide the rest of the partition.
func (r *RecurringOrderRepository) decode(item abstractions.Item) *entities.RecurringOrder {
	var stored recurringOrderItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		r.logger.Warn("Skipping unreadable item", zap.Error(err))
		return nil
	}

	sortKey, err := keys.DecodeSortKey(stored.RangeKey)
	if err != nil {
		r.logger.Warn("Skipping item with unrecognized sort key",
			zap.String("hashKey", stored.HashKey),
			zap.String("rangeKey", stored.RangeKey),
		)
		return nil
	}
	if sortKey.Kind != keys.KindRecurringOrder {
		return nil
	}

	order, err := entities.ReconstructRecurringOrder(
		stored.HashKey,
		sortKey.Raw,
		stored.Currency,
		stored.Frequency,
		stored.Amount,
		stored.CreatedAt,
	)
	if err != nil {
		r.logger.Warn("Skipping malformed recurring order",
			zap.String("hashKey", stored.HashKey),
			zap.String("rangeKey", stored.RangeKey),
			zap.Error(err),
		)
		return nil
	}
	return order
}

func (r *RecurringOrderRepository) storeError(operation string, err error, order *entities.RecurringOrder) error {
	if errors.Is(err, abstractions.ErrConditionFailed) {
		r.logger.Debug("Order slot already claimed",
			zap.String("operation", operation),
			zap.String("hashKey", order.HashKey()),
			zap.String("discriminant", order.Discriminant()),
		)
		return conflictError(order)
	}
	return pkgerrors.NewStoreUnavailableError("create recurring order: "+operation, err)
}

func conflictError(order *entities.RecurringOrder) error {
	return pkgerrors.NewConflictError(fmt.Sprintf(
		"a %s %s recurring order already exists for this user",
		order.Currency(), order.Frequency(),
	)).WithCode("RECURRING_ORDER_EXISTS").WithDetails(map[string]interface{}{
		"currency":  order.Currency().String(),
		"frequency": order.Frequency().String(),
	})
}

func toRecurringOrderItem(order *entities.RecurringOrder) recurringOrderItem {
	item := recurringOrderItem{
		HashKey:   order.HashKey(),
		RangeKey:  order.SortKey(),
		Currency:  order.Currency().String(),
		Frequency: order.Frequency().String(),
		Amount:    order.Amount().Cents(),
	}
	if !order.CreatedAt().IsZero() {
		item.CreatedAt = order.CreatedAt().UTC().Format(time.RFC3339)
	}
	return item
}
