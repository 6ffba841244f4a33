package rest

import (
	"context"
	"net/http"
	"time"

	"recurring-orders/application/commands/bus"
	_ "recurring-orders/docs"
	querybus "recurring-orders/application/queries/bus"
	"recurring-orders/interfaces/http/rest/handlers"
	"recurring-orders/interfaces/http/rest/middleware"
	"recurring-orders/pkg/common"
	pkgerrors "recurring-orders/pkg/errors"
	"recurring-orders/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether the service's dependencies can serve requests
type ReadinessCheck func(ctx context.Context) error

// Options toggles the optional parts of the router
type Options struct {
	ServiceName    string
	RequestTimeout time.Duration
	EnableCORS     bool
	EnableTracing  bool
	Debug          bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	ready      ReadinessCheck
	metrics    *observability.Collector
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics and ready may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	ready ReadinessCheck,
	metrics *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		ready:      ready,
		metrics:    metrics,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.metrics))
	}
	if rt.options.EnableTracing {
		router.Use(observability.TracingMiddleware(rt.options.ServiceName))
	}
	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/", rt.helloWorld)
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Get("/swagger/doc.json", rt.swaggerDoc)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.options.Debug)

	router.Group(func(r chi.Router) {
		if rt.options.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(rt.options.RequestTimeout))
		}

		orderHandler := handlers.NewRecurringOrderHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
		r.Post("/recurring-orders", orderHandler.CreateRecurringOrder)
		r.Get("/recurring-orders", orderHandler.MissingUserID)
		r.Get("/recurring-orders/", orderHandler.MissingUserID)
		r.Get("/recurring-orders/{user_id}", orderHandler.ListRecurringOrders)

		userHandler := handlers.NewUserHandler(rt.queryBus, errorHandler, rt.logger)
		r.Get("/users/{user_id}", userHandler.GetUser)
	})

	return router
}

func (rt *Router) helloWorld(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"hello": "world"})
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// swaggerDoc serves the OpenAPI document registered by the docs package
func (rt *Router) swaggerDoc(w http.ResponseWriter, req *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		rt.logger.Error("Failed to read API document", zap.Error(err))
		common.RespondJSON(w, http.StatusInternalServerError, map[string]string{"error": "API document unavailable"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(doc)); err != nil {
		rt.logger.Error("Failed to write API document", zap.Error(err))
	}
}

// readinessCheck reports 503 while the store cannot be reached
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.ready != nil {
		if err := rt.ready(req.Context()); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
