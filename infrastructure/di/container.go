package di

import (
	"context"
	"errors"

	"recurring-orders/application/commands/bus"
	"recurring-orders/application/ports"
	querybus "recurring-orders/application/queries/bus"
	"recurring-orders/infrastructure/config"
	"recurring-orders/infrastructure/persistence/abstractions"
	"recurring-orders/interfaces/http/rest"
	"recurring-orders/pkg/observability"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Watcher    *config.Watcher
	Logger     *zap.Logger
	DynamoDB   *awsdynamodb.Client
	Store      abstractions.ItemStore
	OrderRepo  ports.RecurringOrderRepository
	UserRepo   ports.UserRepository
	Publisher  ports.EventPublisher
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Metrics    *observability.Collector
	Tracing    *observability.TracerProvider
	Router     *rest.Router
}

// Shutdown stops the config watcher, then flushes traces and logs
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	if c.Watcher != nil {
		errs = append(errs, c.Watcher.Stop())
	}
	if c.Tracing != nil {
		errs = append(errs, c.Tracing.Shutdown(ctx))
	}
	// Sync fails on stdout/stderr on some platforms; nothing to do about it
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}
