// Command seed-user stores a user's details record so orders can be created for it.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"recurring-orders/application/commands"
	"recurring-orders/domain/core/entities"
	"recurring-orders/infrastructure/config"
	"recurring-orders/infrastructure/di"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	userID := flag.String("id", "", "user id; a random one is generated when empty")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	accountNumber := flag.String("account-number", "", "bank account number")
	routingNumber := flag.String("routing-number", "", "bank routing number")
	flag.Parse()

	if *userID == "" {
		*userID = uuid.NewString()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Shutdown(context.Background())

	cmd := commands.RegisterUserCommand{UserID: *userID}
	info := entities.UserInfo{
		FirstName:     *firstName,
		LastName:      *lastName,
		AccountNumber: *accountNumber,
		RoutingNumber: *routingNumber,
	}
	if info != (entities.UserInfo{}) {
		cmd.Info = &info
	}

	if _, err := container.CommandBus.Send(ctx, cmd); err != nil {
		if pkgerrors.IsConflict(err) {
			container.Logger.Warn("User already exists", zap.String("userID", *userID))
			return
		}
		container.Logger.Fatal("Failed to seed user", zap.String("userID", *userID), zap.Error(err))
	}

	container.Logger.Info("User seeded", zap.String("userID", *userID))
}
