package handlers

import (
	"net/http"

	"recurring-orders/application/queries"
	querybus "recurring-orders/application/queries/bus"
	"recurring-orders/pkg/common"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetUser handles GET /users/{user_id}
// @Summary Get a user's details record
// @Tags users
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {object} queries.UserView
// @Failure 404 {object} pkgerrors.ErrorResponse "Unknown user"
// @Router /users/{user_id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetUserQuery{
		UserID: chi.URLParam(r, "user_id"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := common.RespondJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
