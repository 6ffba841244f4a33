package decorators

import (
	"context"
	"errors"
	"time"

	"recurring-orders/infrastructure/persistence/abstractions"
	"recurring-orders/pkg/observability"
)

// MetricsStore records the outcome and latency of every store call
type MetricsStore struct {
	inner   abstractions.ItemStore
	metrics *observability.Collector
}

var _ abstractions.ItemStore = (*MetricsStore)(nil)

// NewMetricsStore wraps inner with Prometheus instrumentation
func NewMetricsStore(inner abstractions.ItemStore, metrics *observability.Collector) *MetricsStore {
	return &MetricsStore{inner: inner, metrics: metrics}
}

func (s *MetricsStore) GetItem(ctx context.Context, table string, key abstractions.Key) (abstractions.Item, error) {
	start := time.Now()
	item, err := s.inner.GetItem(ctx, table, key)
	s.record("get_item", table, start, err)
	return item, err
}

func (s *MetricsStore) PutItem(ctx context.Context, table string, item abstractions.Item, opts abstractions.PutOptions) error {
	start := time.Now()
	err := s.inner.PutItem(ctx, table, item, opts)
	s.record("put_item", table, start, err)
	return err
}

func (s *MetricsStore) DeleteItem(ctx context.Context, table string, key abstractions.Key, opts abstractions.DeleteOptions) error {
	start := time.Now()
	err := s.inner.DeleteItem(ctx, table, key, opts)
	s.record("delete_item", table, start, err)
	return err
}

func (s *MetricsStore) Query(ctx context.Context, q abstractions.Query) ([]abstractions.Item, error) {
	start := time.Now()
	items, err := s.inner.Query(ctx, q)
	s.record("query", q.Table, start, err)
	return items, err
}

func (s *MetricsStore) record(operation, table string, start time.Time, err error) {
	s.metrics.RecordStoreOperation(operation, table, status(err), time.Since(start))
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, abstractions.ErrConditionFailed):
		return "condition_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
