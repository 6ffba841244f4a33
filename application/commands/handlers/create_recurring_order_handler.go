package handlers

import (
	"context"
	"fmt"

	"recurring-orders/application/commands"
	"recurring-orders/application/commands/bus"
	"recurring-orders/application/ports"
	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/core/valueobjects"
	pkgerrors "recurring-orders/pkg/errors"

	"go.uber.org/zap"
)

// CreateRecurringOrderHandler handles the CreateRecurringOrderCommand
type CreateRecurringOrderHandler struct {
	orderRepo ports.RecurringOrderRepository
	publisher ports.EventPublisher
	metrics   ports.OrderMetrics
	logger    *zap.Logger
}

// NewCreateRecurringOrderHandler creates a new handler instance. metrics may be nil.
func NewCreateRecurringOrderHandler(
	orderRepo ports.RecurringOrderRepository,
	publisher ports.EventPublisher,
	metrics ports.OrderMetrics,
	logger *zap.Logger,
) *CreateRecurringOrderHandler {
	return &CreateRecurringOrderHandler{
		orderRepo: orderRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle implements bus.CommandHandler
func (h *CreateRecurringOrderHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	create, ok := cmd.(commands.CreateRecurringOrderCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}
	order, err := h.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Create builds the order, stores it and announces it
func (h *CreateRecurringOrderHandler) Create(ctx context.Context, cmd commands.CreateRecurringOrderCommand) (*entities.RecurringOrder, error) {
	currency, err := valueobjects.ParseCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}
	frequency, err := valueobjects.ParseFrequency(cmd.Frequency)
	if err != nil {
		return nil, err
	}

	order, err := entities.NewRecurringOrder(cmd.HashKey, currency, frequency, cmd.Amount)
	if err != nil {
		return nil, err
	}

	created, err := h.orderRepo.Create(ctx, order)
	if err != nil {
		if pkgerrors.IsConflict(err) && h.metrics != nil {
			h.metrics.RecordOrderConflict(currency.String(), frequency.String())
		}
		return nil, pkgerrors.Wrap(err, "failed to create recurring order")
	}

	if h.metrics != nil {
		h.metrics.RecordOrderCreated(currency.String(), frequency.String())
	}

	// The order is stored; a lost event must not turn that into a failure
	if err := h.publisher.PublishBatch(ctx, order.GetUncommittedEvents()); err != nil {
		h.logger.Error("Failed to publish recurring order events",
			zap.String("hashKey", created.HashKey()),
			zap.String("rangeKey", created.SortKey()),
			zap.Error(err),
		)
	} else {
		order.MarkEventsAsCommitted()
	}

	return created, nil
}
