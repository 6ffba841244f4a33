package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "recurring-orders", cfg.TableName)
	assert.Equal(t, StoreDriverDynamoDB, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.True(t, cfg.BreakerEnabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("TABLE_NAME", "orders-test")
	t.Setenv("DYNAMO_ENDPOINT", "http://localhost:8000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_TIMEOUT", "2")
	t.Setenv("REQUEST_TIMEOUT", "750ms")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("BREAKER_MIN_REQUESTS", "20")
	t.Setenv("BREAKER_FAILURE_RATE", "0.5")
	t.Setenv("ENABLE_METRICS", "0")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "orders-test", cfg.TableName)
	assert.Equal(t, "http://localhost:8000", cfg.DynamoEndpoint)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.False(t, cfg.BreakerEnabled)
	assert.Equal(t, uint32(20), cfg.BreakerMinRequests)
	assert.Equal(t, 0.5, cfg.BreakerFailureRate)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
table_name: from-file
event_bus_name: orders-bus
store_timeout: 3s
log_level: debug
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	// Environment still wins over the file
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TableName)
	assert.Equal(t, "orders-bus", cfg.EventBusName)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty table", mutate: func(c *Config) { c.TableName = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "postgres" }},
		{name: "negative timeout", mutate: func(c *Config) { c.StoreTimeout = -time.Second }},
		{name: "zero failure rate", mutate: func(c *Config) { c.BreakerFailureRate = 0 }},
		{name: "failure rate above one", mutate: func(c *Config) { c.BreakerFailureRate = 1.5 }},
		{name: "memory store in production", mutate: func(c *Config) {
			c.Environment = "production"
			c.StoreDriver = StoreDriverMemory
		}},
	}

	assert.NoError(t, defaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "not-a-duration")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Minute))
}
