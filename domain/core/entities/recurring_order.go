package entities

import (
	"time"

	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/events"
	"recurring-orders/domain/keys"
	pkgerrors "recurring-orders/pkg/errors"
)

// RecurringOrder is a scheduled crypto purchase owned by a user.
// Its sort key is generated once, at creation, and never recomputed.
type RecurringOrder struct {
	userID    valueobjects.UserID
	sortKey   string
	currency  valueobjects.Currency
	frequency valueobjects.Frequency
	amount    valueobjects.Amount
	createdAt time.Time

	events []events.DomainEvent
}

// NewRecurringOrder validates the inputs and creates an order with a fresh sort key
func NewRecurringOrder(
	rawUserID string,
	currency valueobjects.Currency,
	frequency valueobjects.Frequency,
	amountCents int64,
) (*RecurringOrder, error) {
	amount, err := valueobjects.NewAmount(amountCents)
	if err != nil {
		return nil, err
	}

	userID, err := valueobjects.NewUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	sortKey, err := keys.OrderSortKey(currency, frequency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &RecurringOrder{
		userID:    userID,
		sortKey:   sortKey,
		currency:  currency,
		frequency: frequency,
		amount:    amount,
		createdAt: now,
	}

	order.events = append(order.events, events.NewRecurringOrderCreated(
		sortKey,
		userID.String(),
		currency.String(),
		frequency.String(),
		amount.Cents(),
		now,
	))

	return order, nil
}

// ReconstructRecurringOrder rebuilds an order from a stored item.
// The stored sort key is kept as is and must agree with currency and frequency.
func ReconstructRecurringOrder(
	hashKey string,
	sortKey string,
	currency string,
	frequency string,
	amountCents int64,
	createdAt string,
) (*RecurringOrder, error) {
	decoded, err := keys.DecodeSortKey(sortKey)
	if err != nil {
		return nil, pkgerrors.NewInternalError("stored recurring order has an invalid sort key").WithCause(err)
	}
	if decoded.Kind != keys.KindRecurringOrder {
		return nil, pkgerrors.NewInternalError("item is not a recurring order: " + decoded.Kind.String())
	}
	if decoded.Currency.String() != currency || decoded.Frequency.String() != frequency {
		return nil, pkgerrors.NewInternalError("stored recurring order fields disagree with its sort key")
	}

	userID, err := valueobjects.NewUserID(hashKey)
	if err != nil {
		return nil, err
	}
	amount, err := valueobjects.NewAmount(amountCents)
	if err != nil {
		return nil, err
	}

	var created time.Time
	if createdAt != "" {
		created, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, pkgerrors.NewInternalError("stored recurring order has an invalid created_at").WithCause(err)
		}
	}

	return &RecurringOrder{
		userID:    userID,
		sortKey:   sortKey,
		currency:  decoded.Currency,
		frequency: decoded.Frequency,
		amount:    amount,
		createdAt: created,
	}, nil
}

// Getters

func (o *RecurringOrder) UserID() valueobjects.UserID       { return o.userID }
func (o *RecurringOrder) HashKey() string                   { return keys.UserPartitionKey(o.userID.String()) }
func (o *RecurringOrder) SortKey() string                   { return o.sortKey }
func (o *RecurringOrder) Currency() valueobjects.Currency   { return o.currency }
func (o *RecurringOrder) Frequency() valueobjects.Frequency { return o.frequency }
func (o *RecurringOrder) Amount() valueobjects.Amount       { return o.amount }
func (o *RecurringOrder) CreatedAt() time.Time              { return o.createdAt }

// Discriminant returns "<currency>#<frequency>"
func (o *RecurringOrder) Discriminant() string {
	// The pair was validated when the order was built.
	d, _ := keys.OrderDiscriminant(o.currency, o.frequency)
	return d
}

// GetUncommittedEvents returns events raised since the order was created
func (o *RecurringOrder) GetUncommittedEvents() []events.DomainEvent {
	return o.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (o *RecurringOrder) MarkEventsAsCommitted() {
	o.events = nil
}
