//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"recurring-orders/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideConfigWatcher,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideMetrics,
	ProvideTracerProvider,
	ProvideItemStore,
	ProvideRecurringOrderRepository,
	ProvideUserRepository,
	ProvideEventPublisher,
	ProvideOrderMetrics,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideReadinessCheck,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
