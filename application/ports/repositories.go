package ports

import (
	"context"

	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/events"
)

// RecurringOrderRepository defines the interface for recurring order persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type RecurringOrderRepository interface {
	// Create stores a new order. It fails with a conflict error when the user
	// already has an order for the same currency/frequency pair.
	Create(ctx context.Context, order *entities.RecurringOrder) (*entities.RecurringOrder, error)

	// ListByUser returns the user's orders, never the user's details record.
	// It fails with a not found error when the user has none.
	ListByUser(ctx context.Context, userID string) ([]*entities.RecurringOrder, error)
}

// UserRepository defines the interface for user profile persistence
type UserRepository interface {
	// Save creates the user's details record; it fails with a conflict error if one exists
	Save(ctx context.Context, user *entities.User) error

	// Get retrieves the user's details record
	Get(ctx context.Context, userID string) (*entities.User, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OrderMetrics records business outcomes of the create protocol
type OrderMetrics interface {
	RecordOrderCreated(currency, frequency string)
	RecordOrderConflict(currency, frequency string)
}
