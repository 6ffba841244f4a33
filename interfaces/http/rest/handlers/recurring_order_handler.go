package handlers

import (
	"net/http"

	"recurring-orders/application/commands"
	"recurring-orders/application/commands/bus"
	"recurring-orders/application/queries"
	querybus "recurring-orders/application/queries/bus"
	"recurring-orders/domain/core/entities"
	"recurring-orders/pkg/common"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecurringOrderHandler handles recurring order HTTP requests
type RecurringOrderHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewRecurringOrderHandler creates a new recurring order handler
func NewRecurringOrderHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *RecurringOrderHandler {
	return &RecurringOrderHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// CreateRecurringOrderRequest represents the request body for creating a recurring order
type CreateRecurringOrderRequest struct {
	HashKey   string `json:"hash_key"`
	Currency  string `json:"currency"`
	Frequency string `json:"frequency"`
	Amount    int64  `json:"amount"`
}

// CreateRecurringOrder handles POST /recurring-orders
// @Summary Create a recurring order
// @Description Stores a recurring order unless the user already has one for the same currency and frequency
// @Tags recurring-orders
// @Accept json
// @Produce json
// @Param request body CreateRecurringOrderRequest true "Recurring order"
// @Success 200 {object} queries.RecurringOrderView
// @Failure 422 {object} pkgerrors.ErrorResponse "Invalid input or duplicate currency/frequency pair"
// @Failure 500 {object} pkgerrors.ErrorResponse "Store unavailable"
// @Router /recurring-orders [post]
func (h *RecurringOrderHandler) CreateRecurringOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateRecurringOrderRequest
	if err := common.ParseJSONBody(w, r, &req, common.MaxBodyBytes); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CreateRecurringOrderCommand{
		HashKey:   req.HashKey,
		Currency:  req.Currency,
		Frequency: req.Frequency,
		Amount:    req.Amount,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	order, ok := result.(*entities.RecurringOrder)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected create result"))
		return
	}

	h.respond(w, http.StatusOK, queries.NewRecurringOrderView(order))
}

// ListRecurringOrders handles GET /recurring-orders/{user_id}
// @Summary List a user's recurring orders
// @Tags recurring-orders
// @Produce json
// @Param user_id path string true "User id, with or without the User# prefix"
// @Success 200 {array} queries.RecurringOrderView
// @Failure 404 {object} pkgerrors.ErrorResponse "User has no recurring orders"
// @Failure 422 {object} pkgerrors.ErrorResponse "Missing user id"
// @Failure 500 {object} pkgerrors.ErrorResponse "Store unavailable"
// @Router /recurring-orders/{user_id} [get]
func (h *RecurringOrderHandler) ListRecurringOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListRecurringOrdersQuery{
		UserID: chi.URLParam(r, "user_id"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, result)
}

// MissingUserID handles list requests that carry no user id
func (h *RecurringOrderHandler) MissingUserID(w http.ResponseWriter, r *http.Request) {
	h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("user id is required"))
}

func (h *RecurringOrderHandler) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
