package queries

import (
	"time"

	"recurring-orders/domain/core/entities"
	pkgerrors "recurring-orders/pkg/errors"
)

// ListRecurringOrdersQuery represents a query for a user's recurring orders
type ListRecurringOrdersQuery struct {
	UserID string
}

// Validate validates the ListRecurringOrdersQuery
func (q ListRecurringOrdersQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

// RecurringOrderView is the read model of a recurring order
type RecurringOrderView struct {
	HashKey   string `json:"hash_key"`
	RangeKey  string `json:"range_key"`
	Currency  string `json:"currency"`
	Frequency string `json:"frequency"`
	Amount    int64  `json:"amount"`
	AmountUSD string `json:"amount_usd"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NewRecurringOrderView converts an order into its read model
func NewRecurringOrderView(order *entities.RecurringOrder) RecurringOrderView {
	view := RecurringOrderView{
		HashKey:   order.HashKey(),
		RangeKey:  order.SortKey(),
		Currency:  order.Currency().String(),
		Frequency: order.Frequency().String(),
		Amount:    order.Amount().Cents(),
		AmountUSD: order.Amount().USD(),
	}
	if !order.CreatedAt().IsZero() {
		view.CreatedAt = order.CreatedAt().UTC().Format(time.RFC3339)
	}
	return view
}
