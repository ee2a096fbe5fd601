// package api provides the HTTP API for the application
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/pkg/router"
)

// TodoService defines the minimal interface needed by the API
type TodoService interface {
	// ListTodos returns all todos
	ListTodos(ctx context.Context) ([]model.Todo, error)

	// GetTodo returns a todo by ID
	GetTodo(ctx context.Context, id int64) (model.Todo, error)

	// CreateTodo creates a new todo
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error)

	// UpdateTodo updates an existing todo
	UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) (model.Todo, error)

	// DeleteTodo deletes a todo
	DeleteTodo(ctx context.Context, id int64) error
}

// HealthChecker reports whether a dependency, such as the database, is usable
type HealthChecker func(ctx context.Context) error

// Options configures the router
type Options struct {
	Logger      *slog.Logger
	Metrics     *Metrics
	CORSOrigins []string
	Health      HealthChecker

	// TracerProvider defaults to a no-op provider
	TracerProvider trace.TracerProvider
}

// healthTimeout bounds a single health check
const healthTimeout = 2 * time.Second

// API holds the components needed to register routes
type API struct {
	router      *router.DocRouter
	todoHandler *TodoHandler
	health      HealthChecker
}

// NewRouter creates a new router with all routes configured
func NewRouter(todoService TodoService, opts Options) *router.DocRouter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = noop.NewTracerProvider()
	}

	r := router.NewDocRouter("Todo API",
		"Create, list, update and delete todo items",
		"1.0.0",
	).
		WithTag("Todos", "Operations related to todo items").
		WithTag("Core", "Core API endpoints")

	// everything after tracingMiddleware hands r on unchanged, so the
	// logger and metrics see the pattern the mux matched
	r.Use(
		requestIDMiddleware,
		tracingMiddleware(opts.TracerProvider, propagation.TraceContext{}),
		loggerMiddleware(opts.Logger),
		corsMiddleware(opts.CORSOrigins),
		opts.Metrics.middleware,
		recovererMiddleware(opts.Logger),
	)

	api := &API{
		router:      r,
		todoHandler: NewTodoHandler(opts.Logger, todoService),
		health:      opts.Health,
	}
	api.registerRoutes()

	r.Handle("GET /metrics", opts.Metrics.Handler())
	r.Handle("GET /openapi.json", r.OpenAPIHandler())

	return r
}

// registerRoutes configures all API routes with documentation
func (api *API) registerRoutes() {
	errSchema := model.ErrorResponse{}

	notFound := router.Example{Name: "not_found", Value: `{"error": "Todo not found"}`}
	invalidID := router.Example{Name: "invalid_id", Value: `{"error": "invalid todo id"}`}
	malformed := router.Example{Name: "malformed", Value: `{"error": "invalid request format"}`}

	api.router.Route(http.MethodGet, "/{$}", homeHandler).
		WithName("Home").
		WithDescription("Home page").
		WithTags("Core").
		Register()

	api.router.Route(http.MethodGet, "/health", api.healthHandler).
		WithName("Health Check").
		WithDescription("API health check endpoint").
		WithResponse(http.StatusOK, "Service is healthy", HealthResponse{}).
		WithErrorResponse(http.StatusServiceUnavailable, "A dependency is unavailable", HealthResponse{}).
		WithTags("Core").
		Register()

	api.router.Route(http.MethodPost, "/createTodo", api.todoHandler.CreateTodo).
		WithName("Create Todo").
		WithDescription("Create a new todo item. Ids are assigned by the store and new items start pending.").
		WithRequest(model.CreateTodoRequest{}).
		WithResponse(http.StatusCreated, "Created", model.MessageResponse{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema, malformed).
		WithErrorResponse(http.StatusUnprocessableEntity, "Unprocessable Entity", errSchema).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodGet, "/getTodos", api.todoHandler.ListTodos).
		WithName("List Todos").
		WithDescription("Get all todo items in creation order").
		WithResponse(http.StatusOK, "OK", []model.Todo{}).
		WithErrorResponse(http.StatusInternalServerError, "Internal Server Error", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodGet, "/getTodos/{id}", api.todoHandler.GetTodo).
		WithName("Get Todo").
		WithDescription("Get a todo item by ID").
		WithPathParam("id", int64(0)).
		WithResponse(http.StatusOK, "OK", model.Todo{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema, invalidID).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodPut, "/updateTodo/{id}", api.todoHandler.UpdateTodo).
		WithName("Update Todo").
		WithDescription("Update the fields present in the payload. A null clears name or detail.").
		WithPathParam("id", int64(0)).
		WithRequest(model.UpdateTodoRequest{}).
		WithResponse(http.StatusOK, "OK", model.MessageResponse{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema, invalidID, malformed).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithErrorResponse(http.StatusUnprocessableEntity, "Unprocessable Entity", errSchema,
			router.Example{
				Name:  "invalid_status",
				Value: `{"error": "invalid status: \"done\" is not one of pending, in_process, completed"}`,
			}).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodDelete, "/deleteTodo/{id}", api.todoHandler.DeleteTodo).
		WithName("Delete Todo").
		WithDescription("Delete a todo item. Its id is never handed out again.").
		WithPathParam("id", int64(0)).
		WithResponse(http.StatusOK, "OK", model.MessageResponse{}).
		WithErrorResponse(http.StatusBadRequest, "Bad Request", errSchema, invalidID).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithTags("Todos").
		Register()
}

// homeHandler handles the home page
func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("Welcome to the Todo API"))
}

// HealthResponse reports the service health
type HealthResponse struct {
	Status string `json:"status" enum:"ok,unavailable"`
}

// healthHandler handles the health check endpoint
func (api *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	if api.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := api.health(ctx); err != nil {
			api.todoHandler.log.Warn("health check failed", "error", err)
			writeJSON(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	writeJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}
