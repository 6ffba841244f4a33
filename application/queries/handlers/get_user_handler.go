package handlers

import (
	"context"
	"fmt"

	"recurring-orders/application/ports"
	"recurring-orders/application/queries"
	"recurring-orders/application/queries/bus"
	pkgerrors "recurring-orders/pkg/errors"
)

// GetUserHandler handles the GetUserQuery
type GetUserHandler struct {
	userRepo ports.UserRepository
}

// NewGetUserHandler creates a new handler instance
func NewGetUserHandler(userRepo ports.UserRepository) *GetUserHandler {
	return &GetUserHandler{userRepo: userRepo}
}

// Handle implements bus.QueryHandler
func (h *GetUserHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	get, ok := query.(queries.GetUserQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
	}

	user, err := h.userRepo.Get(ctx, get.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get user")
	}
	return queries.NewUserView(user), nil
}
