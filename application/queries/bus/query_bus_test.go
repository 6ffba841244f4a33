package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type lookupQuery struct {
	ID string
}

func (q lookupQuery) Validate() error {
	if q.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

func TestQueryBus_Ask(t *testing.T) {
	bus := NewQueryBus(LoggingMiddleware(zap.NewNop()))
	require.NoError(t, bus.Register(lookupQuery{}, QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		return "found " + query.(lookupQuery).ID, nil
	})))

	result, err := bus.Ask(context.Background(), lookupQuery{ID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, "found U1", result)

	_, err = bus.Ask(context.Background(), lookupQuery{})
	assert.EqualError(t, err, "id is required")
}

func TestQueryBus_UnknownQuery(t *testing.T) {
	bus := NewQueryBus()

	_, err := bus.Ask(context.Background(), lookupQuery{ID: "U1"})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestQueryBus_DuplicateRegistration(t *testing.T) {
	bus := NewQueryBus()
	handler := QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) { return nil, nil })

	require.NoError(t, bus.Register(lookupQuery{}, handler))
	assert.Error(t, bus.Register(lookupQuery{}, handler))
}
