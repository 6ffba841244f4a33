package handlers

import (
	"context"
	"fmt"

	"recurring-orders/application/commands"
	"recurring-orders/application/commands/bus"
	"recurring-orders/application/ports"
	"recurring-orders/domain/core/entities"
	pkgerrors "recurring-orders/pkg/errors"
)

// RegisterUserHandler handles the RegisterUserCommand
type RegisterUserHandler struct {
	userRepo ports.UserRepository
}

// NewRegisterUserHandler creates a new handler instance
func NewRegisterUserHandler(userRepo ports.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{userRepo: userRepo}
}

// Handle implements bus.CommandHandler
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	register, ok := cmd.(commands.RegisterUserCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}

	user, err := entities.NewUser(register.UserID, register.Info)
	if err != nil {
		return nil, err
	}
	if err := h.userRepo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to save user")
	}
	return user, nil
}
