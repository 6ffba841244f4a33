package handlers

import (
	"context"

	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockRecurringOrderRepository is a mock implementation of ports.RecurringOrderRepository
type MockRecurringOrderRepository struct {
	mock.Mock
}

func (m *MockRecurringOrderRepository) Create(ctx context.Context, order *entities.RecurringOrder) (*entities.RecurringOrder, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RecurringOrder), args.Error(1)
}

func (m *MockRecurringOrderRepository) ListByUser(ctx context.Context, userID string) ([]*entities.RecurringOrder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RecurringOrder), args.Error(1)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockOrderMetrics is a mock implementation of ports.OrderMetrics
type MockOrderMetrics struct {
	mock.Mock
}

func (m *MockOrderMetrics) RecordOrderCreated(currency, frequency string) {
	m.Called(currency, frequency)
}

func (m *MockOrderMetrics) RecordOrderConflict(currency, frequency string) {
	m.Called(currency, frequency)
}
