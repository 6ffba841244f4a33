package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recurring-orders/infrastructure/config"
	"recurring-orders/infrastructure/messaging/eventbridge"
	"recurring-orders/infrastructure/persistence/decorators"
	"recurring-orders/infrastructure/persistence/memory"
	"recurring-orders/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		TableName:          "orders",
		StoreDriver:        config.StoreDriverMemory,
		RequestTimeout:     5 * time.Second,
		BreakerEnabled:     true,
		BreakerMinRequests: 10,
		BreakerFailureRate: 0.6,
		BreakerOpenTimeout: 30 * time.Second,
		LogLevel:           "error",
		EnableMetrics:      true,
	}
}

func TestProvideLogLevel(t *testing.T) {
	cfg := memoryConfig()

	level, err := ProvideLogLevel(cfg)
	require.NoError(t, err)
	assert.Equal(t, zap.ErrorLevel, level.Level())

	logger, err := ProvideLogger(cfg, level)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	// The logger follows later level changes
	level.SetLevel(zap.DebugLevel)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	cfg.LogLevel = "loud"
	_, err = ProvideLogLevel(cfg)
	assert.Error(t, err)
}

func TestProvideConfigWatcher(t *testing.T) {
	cfg := memoryConfig()
	level := zap.NewAtomicLevelAt(zap.InfoLevel)

	watcher, err := ProvideConfigWatcher(cfg, level, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, watcher)

	cfg.ConfigFile = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte("log_level: info\n"), 0o600))

	watcher, err = ProvideConfigWatcher(cfg, level, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, watcher)
	assert.NoError(t, watcher.Stop())
}

func TestProvideItemStore_Decorates(t *testing.T) {
	cfg := memoryConfig()

	store := ProvideItemStore(cfg, nil, observability.NewCollector("test"), zap.NewNop())
	_, isBreaker := store.(*decorators.CircuitBreakerStore)
	assert.True(t, isBreaker)

	cfg.BreakerEnabled = false
	store = ProvideItemStore(cfg, nil, nil, zap.NewNop())
	_, isMemory := store.(*memory.Store)
	assert.True(t, isMemory)
}

func TestProvideEventPublisher_NoBus(t *testing.T) {
	publisher := ProvideEventPublisher(nil, memoryConfig(), zap.NewNop())

	_, ok := publisher.(*eventbridge.NoopPublisher)
	assert.True(t, ok)
}

func TestProvideOrderMetrics_NilCollector(t *testing.T) {
	assert.Nil(t, ProvideOrderMetrics(nil))
	assert.NotNil(t, ProvideOrderMetrics(observability.NewCollector("test")))
}

func TestProvideReadinessCheck(t *testing.T) {
	check := ProvideReadinessCheck(memory.NewStore(), memoryConfig())

	assert.NoError(t, check(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, check(ctx))
}

func TestInitializeContainer_MemoryStore(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	ctx := context.Background()

	container, err := InitializeContainer(ctx, memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	handler := container.Router.Setup()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recurring-orders",
		strings.NewReader(`{"hash_key":"U1","currency":"ETH","frequency":"DAILY","amount":300}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recurring-orders/U1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount_usd":"3.00"`)
}
