package di

import (
	"context"
	"fmt"

	"recurring-orders/application/commands"
	"recurring-orders/application/commands/bus"
	commands_handlers "recurring-orders/application/commands/handlers"
	"recurring-orders/application/ports"
	"recurring-orders/application/queries"
	querybus "recurring-orders/application/queries/bus"
	queries_handlers "recurring-orders/application/queries/handlers"
	"recurring-orders/domain/keys"
	"recurring-orders/infrastructure/config"
	"recurring-orders/infrastructure/messaging/eventbridge"
	"recurring-orders/infrastructure/persistence/abstractions"
	"recurring-orders/infrastructure/persistence/decorators"
	"recurring-orders/infrastructure/persistence/dynamodb"
	"recurring-orders/infrastructure/persistence/memory"
	"recurring-orders/infrastructure/persistence/singletable"
	"recurring-orders/interfaces/http/rest"
	"recurring-orders/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName names the service in metrics, traces and events
const ServiceName = "recurring-orders"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", ServiceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideLogLevel parses LOG_LEVEL into a level the config watcher can change later
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideConfigWatcher watches the config file for runtime changes. It returns
// nil when the configuration did not come from a file.
func ProvideConfigWatcher(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) (*config.Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}
	watcher, err := config.NewWatcher(cfg.ConfigFile, level, logger)
	if err != nil {
		return nil, err
	}
	watcher.Start()
	return watcher, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMO_ENDPOINT when set
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("recurring_orders")
}

// ProvideTracerProvider sets up OpenTelemetry tracing
func ProvideTracerProvider(cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
}

// ProvideItemStore builds the configured store and wraps it with
// instrumentation and, when enabled, a circuit breaker
func ProvideItemStore(
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) abstractions.ItemStore {
	var store abstractions.ItemStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("Using the in-memory store; data is lost on restart")
		store = memory.NewStore()
	default:
		store = dynamodb.NewStore(client, cfg.StoreTimeout, logger)
	}

	if metrics != nil {
		store = decorators.NewMetricsStore(store, metrics)
	}

	if cfg.BreakerEnabled {
		breakerCfg := decorators.DefaultCircuitBreakerConfig("item-store")
		breakerCfg.MinRequests = cfg.BreakerMinRequests
		breakerCfg.FailureThreshold = cfg.BreakerFailureRate
		breakerCfg.Timeout = cfg.BreakerOpenTimeout
		store = decorators.NewCircuitBreakerStore(store, breakerCfg, metrics, logger)
	}

	return store
}

// ProvideRecurringOrderRepository creates the recurring order repository
func ProvideRecurringOrderRepository(
	store abstractions.ItemStore,
	cfg *config.Config,
	tracing *observability.TracerProvider,
	logger *zap.Logger,
) ports.RecurringOrderRepository {
	var repo ports.RecurringOrderRepository = singletable.NewRecurringOrderRepository(store, cfg.TableName, logger)
	if cfg.EnableTracing {
		repo = decorators.NewTracedRecurringOrderRepository(repo, tracing.Tracer())
	}
	return repo
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(store abstractions.ItemStore, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return singletable.NewUserRepository(store, cfg.TableName, logger)
}

// ProvideEventPublisher publishes to EventBridge, or drops events when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNoopPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideOrderMetrics exposes the collector as ports.OrderMetrics. A nil
// collector must become a nil interface, not an interface holding nil.
func ProvideOrderMetrics(metrics *observability.Collector) ports.OrderMetrics {
	if metrics == nil {
		return nil
	}
	return metrics
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	orderRepo ports.RecurringOrderRepository,
	userRepo ports.UserRepository,
	publisher ports.EventPublisher,
	orderMetrics ports.OrderMetrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	createHandler := commands_handlers.NewCreateRecurringOrderHandler(orderRepo, publisher, orderMetrics, logger)
	if err := commandBus.Register(commands.CreateRecurringOrderCommand{}, createHandler); err != nil {
		return nil, err
	}

	registerHandler := commands_handlers.NewRegisterUserHandler(userRepo)
	if err := commandBus.Register(commands.RegisterUserCommand{}, registerHandler); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	orderRepo ports.RecurringOrderRepository,
	userRepo ports.UserRepository,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(querybus.LoggingMiddleware(logger))

	listHandler := queries_handlers.NewListRecurringOrdersHandler(orderRepo, logger)
	if err := queryBus.Register(queries.ListRecurringOrdersQuery{}, listHandler); err != nil {
		return nil, err
	}

	getUserHandler := queries_handlers.NewGetUserHandler(userRepo)
	if err := queryBus.Register(queries.GetUserQuery{}, getUserHandler); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideReadinessCheck probes the store with a point read of a key that never exists
func ProvideReadinessCheck(store abstractions.ItemStore, cfg *config.Config) rest.ReadinessCheck {
	probe := abstractions.Key{HashKey: keys.UserPartitionKey("readiness-probe"), RangeKey: keys.UserSortKey}
	return func(ctx context.Context) error {
		_, err := store.GetItem(ctx, cfg.TableName, probe)
		return err
	}
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	ready rest.ReadinessCheck,
	metrics *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, ready, metrics, rest.Options{
		ServiceName:    ServiceName,
		RequestTimeout: cfg.RequestTimeout,
		EnableCORS:     cfg.EnableCORS,
		EnableTracing:  cfg.EnableTracing,
		Debug:          cfg.IsDevelopment(),
	}, logger)
}
