package handlers

import (
	"context"
	"fmt"

	"recurring-orders/application/ports"
	"recurring-orders/application/queries"
	"recurring-orders/application/queries/bus"
	pkgerrors "recurring-orders/pkg/errors"

	"go.uber.org/zap"
)

// ListRecurringOrdersHandler handles the ListRecurringOrdersQuery
type ListRecurringOrdersHandler struct {
	orderRepo ports.RecurringOrderRepository
	logger    *zap.Logger
}

// NewListRecurringOrdersHandler creates a new handler instance
func NewListRecurringOrdersHandler(orderRepo ports.RecurringOrderRepository, logger *zap.Logger) *ListRecurringOrdersHandler {
	return &ListRecurringOrdersHandler{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Handle implements bus.QueryHandler
func (h *ListRecurringOrdersHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	list, ok := query.(queries.ListRecurringOrdersQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
	}
	views, err := h.List(ctx, list)
	if err != nil {
		return nil, err
	}
	return views, nil
}

// List returns the read models of the user's orders
func (h *ListRecurringOrdersHandler) List(ctx context.Context, query queries.ListRecurringOrdersQuery) ([]queries.RecurringOrderView, error) {
	orders, err := h.orderRepo.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list recurring orders")
	}

	views := make([]queries.RecurringOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, queries.NewRecurringOrderView(order))
	}

	h.logger.Debug("Listed recurring orders",
		zap.String("userID", query.UserID),
		zap.Int("count", len(views)),
	)
	return views, nil
}
