package entities_test

import (
	"strings"
	"testing"
	"time"

	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/events"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecurringOrder(t *testing.T) {
	// Arrange & Act
	order, err := entities.NewRecurringOrder("User#U1", valueobjects.CurrencyBTC, valueobjects.FrequencyDaily, 1000)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "U1", order.UserID().String())
	assert.Equal(t, "User#U1", order.HashKey())
	assert.True(t, strings.HasPrefix(order.SortKey(), "RecurringOrder#"))
	assert.True(t, strings.HasSuffix(order.SortKey(), "#BTC#DAILY"))
	assert.Equal(t, "BTC#DAILY", order.Discriminant())
	assert.Equal(t, int64(1000), order.Amount().Cents())
	assert.WithinDuration(t, time.Now(), order.CreatedAt(), time.Minute)

	raised := order.GetUncommittedEvents()
	require.Len(t, raised, 1)
	created, ok := raised[0].(events.RecurringOrderCreated)
	require.True(t, ok)
	assert.Equal(t, events.EventTypeRecurringOrderCreated, created.GetEventType())
	assert.Equal(t, order.SortKey(), created.GetAggregateID())
	assert.Equal(t, "U1", created.UserID)
	assert.Equal(t, int64(1000), created.Amount)

	order.MarkEventsAsCommitted()
	assert.Empty(t, order.GetUncommittedEvents())
}

func TestNewRecurringOrder_Validation(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		currency  valueobjects.Currency
		frequency valueobjects.Frequency
		amount    int64
	}{
		{name: "zero amount", userID: "U2", currency: valueobjects.CurrencyBTC, frequency: valueobjects.FrequencyDaily, amount: 0},
		{name: "negative amount", userID: "U2", currency: valueobjects.CurrencyBTC, frequency: valueobjects.FrequencyDaily, amount: -1},
		{name: "missing user", userID: "", currency: valueobjects.CurrencyBTC, frequency: valueobjects.FrequencyDaily, amount: 10},
		{name: "bad currency", userID: "U2", currency: "XRP", frequency: valueobjects.FrequencyDaily, amount: 10},
		{name: "bad frequency", userID: "U2", currency: valueobjects.CurrencyETH, frequency: "HOURLY", amount: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := entities.NewRecurringOrder(tt.userID, tt.currency, tt.frequency, tt.amount)

			assert.Nil(t, order)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestReconstructRecurringOrder(t *testing.T) {
	original, err := entities.NewRecurringOrder("U1", valueobjects.CurrencyETH, valueobjects.FrequencyBiMonthly, 2500)
	require.NoError(t, err)
	createdAt := original.CreatedAt().Format(time.RFC3339)

	t.Run("keeps the stored sort key", func(t *testing.T) {
		order, err := entities.ReconstructRecurringOrder("User#U1", original.SortKey(), "ETH", "BI_MONTHLY", 2500, createdAt)

		require.NoError(t, err)
		assert.Equal(t, original.SortKey(), order.SortKey())
		assert.Equal(t, valueobjects.CurrencyETH, order.Currency())
		assert.Equal(t, valueobjects.FrequencyBiMonthly, order.Frequency())
		assert.Empty(t, order.GetUncommittedEvents())
	})

	t.Run("missing created_at", func(t *testing.T) {
		order, err := entities.ReconstructRecurringOrder("User#U1", original.SortKey(), "ETH", "BI_MONTHLY", 2500, "")

		require.NoError(t, err)
		assert.True(t, order.CreatedAt().IsZero())
	})

	t.Run("fields disagree with sort key", func(t *testing.T) {
		_, err := entities.ReconstructRecurringOrder("User#U1", original.SortKey(), "BTC", "BI_MONTHLY", 2500, createdAt)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
	})

	t.Run("not an order key", func(t *testing.T) {
		_, err := entities.ReconstructRecurringOrder("User#U1", "details", "ETH", "BI_MONTHLY", 2500, createdAt)

		require.Error(t, err)
	})
}

func TestNewUser(t *testing.T) {
	info := &entities.UserInfo{FirstName: "Ada", LastName: "Lovelace"}

	user, err := entities.NewUser("User#U1", info)

	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID().String())
	assert.Equal(t, "User#U1", user.HashKey())
	assert.Equal(t, "details", user.SortKey())
	assert.Equal(t, info, user.Info())

	_, err = entities.NewUser("", nil)
	assert.True(t, pkgerrors.IsValidation(err))
}
