package decorators

import (
	"context"
	"errors"
	"time"

	"recurring-orders/infrastructure/persistence/abstractions"
	"recurring-orders/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CircuitBreakerConfig holds configuration for the store circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration

	// The breaker trips once MinRequests calls were made in the current
	// interval and at least FailureThreshold of them failed
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for the store breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      10,
	}
}

// CircuitBreakerStore fails fast while the underlying store keeps failing.
// Failed conditions and caller cancellations are answers, not outages, and
// never count against the store.
type CircuitBreakerStore struct {
	inner   abstractions.ItemStore
	breaker *gobreaker.CircuitBreaker
}

var _ abstractions.ItemStore = (*CircuitBreakerStore)(nil)

// NewCircuitBreakerStore wraps inner with a breaker. metrics may be nil.
func NewCircuitBreakerStore(inner abstractions.ItemStore, config CircuitBreakerConfig, metrics *observability.Collector, logger *zap.Logger) *CircuitBreakerStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Store circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if metrics != nil {
				metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, abstractions.ErrConditionFailed) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerStore{inner: inner, breaker: breaker}
}

// State reports the breaker's current state
func (s *CircuitBreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *CircuitBreakerStore) GetItem(ctx context.Context, table string, key abstractions.Key) (abstractions.Item, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.inner.GetItem(ctx, table, key)
	})
	if err != nil {
		return nil, err
	}
	item, _ := result.(abstractions.Item)
	return item, nil
}

func (s *CircuitBreakerStore) PutItem(ctx context.Context, table string, item abstractions.Item, opts abstractions.PutOptions) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.PutItem(ctx, table, item, opts)
	})
	return err
}

func (s *CircuitBreakerStore) DeleteItem(ctx context.Context, table string, key abstractions.Key, opts abstractions.DeleteOptions) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.DeleteItem(ctx, table, key, opts)
	})
	return err
}

func (s *CircuitBreakerStore) Query(ctx context.Context, q abstractions.Query) ([]abstractions.Item, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.inner.Query(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	items, _ := result.([]abstractions.Item)
	return items, nil
}
