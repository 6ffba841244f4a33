// Command create-table creates the single table when it is missing.
// Point DYNAMO_ENDPOINT at DynamoDB Local to prepare a development table.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"recurring-orders/infrastructure/config"
	"recurring-orders/infrastructure/di"
	"recurring-orders/infrastructure/persistence/dynamodb"

	"go.uber.org/zap"
)

func main() {
	maxWait := flag.Duration("wait", 2*time.Minute, "how long to wait for the table to become active")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver != config.StoreDriverDynamoDB {
		log.Fatalf("create-table needs STORE_DRIVER=%s, got %s", config.StoreDriverDynamoDB, cfg.StoreDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *maxWait+30*time.Second)
	defer cancel()

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Shutdown(context.Background())

	if err := dynamodb.EnsureTable(ctx, container.DynamoDB, cfg.TableName, *maxWait, container.Logger); err != nil {
		container.Logger.Fatal("Failed to ensure table", zap.String("table", cfg.TableName), zap.Error(err))
	}

	container.Logger.Info("Table ready", zap.String("table", cfg.TableName))
}
