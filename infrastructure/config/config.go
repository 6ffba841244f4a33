package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress  string        `yaml:"server_address"`
	Environment    string        `yaml:"environment"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// AWS configuration
	AWSRegion      string `yaml:"aws_region"`
	DynamoEndpoint string `yaml:"dynamo_endpoint"`
	TableName      string `yaml:"table_name"`
	EventBusName   string `yaml:"event_bus_name"`

	// Store configuration
	StoreDriver  string        `yaml:"store_driver"`
	StoreTimeout time.Duration `yaml:"store_timeout"`

	// Circuit breaker around the store
	BreakerEnabled     bool          `yaml:"breaker_enabled"`
	BreakerMinRequests uint32        `yaml:"breaker_min_requests"`
	BreakerFailureRate float64       `yaml:"breaker_failure_rate"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Feature flags
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableTracing bool   `yaml:"enable_tracing"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`
	EnableCORS    bool   `yaml:"enable_cors"`

	// ConfigFile is the YAML file the configuration was read from, if any
	ConfigFile string `yaml:"-"`
}

// defaultConfig returns the configuration used when nothing else is set
func defaultConfig() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		RequestTimeout:     30 * time.Second,
		AWSRegion:          "us-east-1",
		TableName:          "recurring-orders",
		StoreDriver:        StoreDriverDynamoDB,
		StoreTimeout:       5 * time.Second,
		BreakerEnabled:     true,
		BreakerMinRequests: 10,
		BreakerFailureRate: 0.6,
		BreakerOpenTimeout: 30 * time.Second,
		LogLevel:           "info",
		EnableMetrics:      true,
		EnableCORS:         true,
	}
}

// LoadConfig loads configuration in increasing priority: defaults, the YAML
// file named by CONFIG_FILE, then environment variables. A .env file in the
// working directory is read into the environment first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	cfg.loadEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironment() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoEndpoint = getEnv("DYNAMO_ENDPOINT", c.DynamoEndpoint)
	c.TableName = getEnv("TABLE_NAME", c.TableName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.StoreTimeout = getEnvDuration("STORE_TIMEOUT", c.StoreTimeout)

	c.BreakerEnabled = getEnvBool("BREAKER_ENABLED", c.BreakerEnabled)
	c.BreakerMinRequests = uint32(getEnvInt("BREAKER_MIN_REQUESTS", int(c.BreakerMinRequests)))
	c.BreakerFailureRate = getEnvFloat("BREAKER_FAILURE_RATE", c.BreakerFailureRate)
	c.BreakerOpenTimeout = getEnvDuration("BREAKER_OPEN_TIMEOUT", c.BreakerOpenTimeout)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	switch c.StoreDriver {
	case StoreDriverDynamoDB, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q; use %s or %s", c.StoreDriver, StoreDriverDynamoDB, StoreDriverMemory)
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("STORE_TIMEOUT must not be negative")
	}
	if c.BreakerFailureRate <= 0 || c.BreakerFailureRate > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATE must be in (0, 1]")
	}
	if c.IsProduction() && c.StoreDriver == StoreDriverMemory {
		return fmt.Errorf("the memory store driver is not allowed in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsLambda reports whether the process runs inside AWS Lambda
func (c *Config) IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or plain seconds ("5")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
