package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"recurring-orders/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func orderCreated(n int) []events.DomainEvent {
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewRecurringOrderCreated("RecurringOrder#x#BTC#DAILY", "U1", "BTC", "DAILY", 1000, time.Now()))
	}
	return out
}

func TestPublisher_PublishBatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(MockClient)
	client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		if len(in.Entries) != 1 {
			return false
		}
		entry := in.Entries[0]
		var detail map[string]interface{}
		if err := json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail); err != nil {
			return false
		}
		return aws.ToString(entry.Source) == Source &&
			aws.ToString(entry.EventBusName) == "orders-bus" &&
			aws.ToString(entry.DetailType) == events.EventTypeRecurringOrderCreated &&
			detail["currency"] == "BTC"
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()

	publisher := NewPublisher(client, "orders-bus", zap.NewNop())

	// Act
	err := publisher.Publish(ctx, orderCreated(1)[0])

	// Assert
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestPublisher_PublishBatch_Chunks(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 10
	})).Return(&eventbridge.PutEventsOutput{}, nil).Twice()
	client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 3
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()

	err := NewPublisher(client, "orders-bus", zap.NewNop()).PublishBatch(ctx, orderCreated(23))

	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}

func TestPublisher_PublishBatch_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("request fails", func(t *testing.T) {
		client := new(MockClient)
		client.On("PutEvents", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		err := NewPublisher(client, "orders-bus", zap.NewNop()).PublishBatch(ctx, orderCreated(1))

		assert.ErrorContains(t, err, "throttled")
	})

	t.Run("entries rejected", func(t *testing.T) {
		client := new(MockClient)
		client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries: []types.PutEventsResultEntry{
				{EventId: aws.String("1")},
				{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("try again")},
			},
		}, nil)

		err := NewPublisher(client, "orders-bus", zap.NewNop()).PublishBatch(ctx, orderCreated(2))

		assert.ErrorContains(t, err, "1 events failed to publish")
	})
}

func TestPublisher_PublishBatch_Empty(t *testing.T) {
	client := new(MockClient)

	err := NewPublisher(client, "orders-bus", zap.NewNop()).PublishBatch(context.Background(), nil)

	assert.NoError(t, err)
	client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher(zap.NewNop())

	assert.NoError(t, publisher.PublishBatch(context.Background(), orderCreated(3)))
}
