package handlers

import (
	"context"
	"errors"
	"testing"

	"recurring-orders/application/commands"
	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/events"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func storedOrder(t *testing.T) *entities.RecurringOrder {
	t.Helper()
	order, err := entities.NewRecurringOrder("U1", valueobjects.CurrencyBTC, valueobjects.FrequencyDaily, 1000)
	require.NoError(t, err)
	order.MarkEventsAsCommitted()
	return order
}

func oneCreatedEvent() interface{} {
	return mock.MatchedBy(func(evts []events.DomainEvent) bool {
		return len(evts) == 1 && evts[0].GetEventType() == events.EventTypeRecurringOrderCreated
	})
}

func TestCreateRecurringOrderHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockRecurringOrderRepository)
	mockPublisher := new(MockEventPublisher)
	mockMetrics := new(MockOrderMetrics)
	stored := storedOrder(t)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(o *entities.RecurringOrder) bool {
		return o.HashKey() == "User#U1" && o.Amount().Cents() == 1000 && o.Discriminant() == "BTC#DAILY"
	})).Return(stored, nil).Once()
	mockMetrics.On("RecordOrderCreated", "BTC", "DAILY").Once()
	mockPublisher.On("PublishBatch", ctx, oneCreatedEvent()).Return(nil).Once()

	handler := NewCreateRecurringOrderHandler(mockRepo, mockPublisher, mockMetrics, zap.NewNop())
	cmd := commands.CreateRecurringOrderCommand{HashKey: "U1", Currency: "BTC", Frequency: "DAILY", Amount: 1000}

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Same(t, stored, result)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}

func TestCreateRecurringOrderHandler_Handle_Conflict(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockRecurringOrderRepository)
	mockPublisher := new(MockEventPublisher)
	mockMetrics := new(MockOrderMetrics)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*entities.RecurringOrder")).
		Return(nil, pkgerrors.NewConflictError("already exists")).Once()
	mockMetrics.On("RecordOrderConflict", "ETH", "BI_MONTHLY").Once()

	handler := NewCreateRecurringOrderHandler(mockRepo, mockPublisher, mockMetrics, zap.NewNop())
	cmd := commands.CreateRecurringOrderCommand{HashKey: "User#U1", Currency: "ETH", Frequency: "BI_MONTHLY", Amount: 2500}

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsConflict(err))
	mockMetrics.AssertExpectations(t)
	mockPublisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestCreateRecurringOrderHandler_Handle_UnclassifiedRepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockRecurringOrderRepository)
	mockPublisher := new(MockEventPublisher)
	cause := errors.New("connection reset")

	mockRepo.On("Create", ctx, mock.AnythingOfType("*entities.RecurringOrder")).Return(nil, cause).Once()

	handler := NewCreateRecurringOrderHandler(mockRepo, mockPublisher, nil, zap.NewNop())
	cmd := commands.CreateRecurringOrderCommand{HashKey: "User#U1", Currency: "BTC", Frequency: "DAILY", Amount: 1000}

	// Act
	result, err := handler.Handle(ctx, cmd)

	// Assert
	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
	assert.ErrorIs(t, err, cause)
	mockPublisher.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
}

func TestCreateRecurringOrderHandler_Handle_PublishFailureIsTolerated(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockRecurringOrderRepository)
	mockPublisher := new(MockEventPublisher)
	stored := storedOrder(t)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*entities.RecurringOrder")).Return(stored, nil).Once()
	mockPublisher.On("PublishBatch", ctx, oneCreatedEvent()).Return(errors.New("event bus down")).Once()

	// No metrics sink configured
	handler := NewCreateRecurringOrderHandler(mockRepo, mockPublisher, nil, zap.NewNop())
	cmd := commands.CreateRecurringOrderCommand{HashKey: "U1", Currency: "BTC", Frequency: "DAILY", Amount: 1000}

	// Act
	created, err := handler.Create(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Same(t, stored, created)
	mockPublisher.AssertExpectations(t)
}

func TestCreateRecurringOrderHandler_Handle_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		cmd  commands.CreateRecurringOrderCommand
	}{
		{name: "zero amount", cmd: commands.CreateRecurringOrderCommand{HashKey: "U2", Currency: "BTC", Frequency: "DAILY", Amount: 0}},
		{name: "unknown currency", cmd: commands.CreateRecurringOrderCommand{HashKey: "U2", Currency: "SOL", Frequency: "DAILY", Amount: 10}},
		{name: "unknown frequency", cmd: commands.CreateRecurringOrderCommand{HashKey: "U2", Currency: "BTC", Frequency: "YEARLY", Amount: 10}},
		{name: "empty user", cmd: commands.CreateRecurringOrderCommand{HashKey: "User#", Currency: "BTC", Frequency: "DAILY", Amount: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRecurringOrderRepository)
			mockPublisher := new(MockEventPublisher)
			handler := NewCreateRecurringOrderHandler(mockRepo, mockPublisher, nil, zap.NewNop())

			_, err := handler.Create(context.Background(), tt.cmd)

			assert.True(t, pkgerrors.IsValidation(err))
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRecurringOrderHandler_Handle_WrongCommand(t *testing.T) {
	handler := NewCreateRecurringOrderHandler(new(MockRecurringOrderRepository), new(MockEventPublisher), nil, zap.NewNop())

	_, err := handler.Handle(context.Background(), commands.RegisterUserCommand{UserID: "U1"})

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
}
