package decorators

import (
	"context"

	"recurring-orders/application/ports"
	"recurring-orders/domain/core/entities"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedRecurringOrderRepository opens a span around each repository call
type TracedRecurringOrderRepository struct {
	inner  ports.RecurringOrderRepository
	tracer trace.Tracer
}

var _ ports.RecurringOrderRepository = (*TracedRecurringOrderRepository)(nil)

// NewTracedRecurringOrderRepository wraps inner with tracing
func NewTracedRecurringOrderRepository(inner ports.RecurringOrderRepository, tracer trace.Tracer) *TracedRecurringOrderRepository {
	return &TracedRecurringOrderRepository{inner: inner, tracer: tracer}
}

func (r *TracedRecurringOrderRepository) Create(ctx context.Context, order *entities.RecurringOrder) (*entities.RecurringOrder, error) {
	ctx, span := r.tracer.Start(ctx, "RecurringOrderRepository.Create",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	if order != nil {
		span.SetAttributes(
			attribute.String("order.hash_key", order.HashKey()),
			attribute.String("order.currency", order.Currency().String()),
			attribute.String("order.frequency", order.Frequency().String()),
		)
	}

	created, err := r.inner.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order.range_key", created.SortKey()))
	return created, nil
}

func (r *TracedRecurringOrderRepository) ListByUser(ctx context.Context, userID string) ([]*entities.RecurringOrder, error) {
	ctx, span := r.tracer.Start(ctx, "RecurringOrderRepository.ListByUser",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	orders, err := r.inner.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}
