package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/repository"
)

// maxBodyBytes caps request payloads
const maxBodyBytes = 1 << 20

// TodoHandler handles HTTP requests for todo operations
type TodoHandler struct {
	log         *slog.Logger
	todoService TodoService
}

// NewTodoHandler creates a new todo handler with the given service
func NewTodoHandler(log *slog.Logger, todoService TodoService) *TodoHandler {
	return &TodoHandler{
		log:         log,
		todoService: todoService,
	}
}

// ListTodos handles GET /getTodos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ListTodos(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "error listing todos")
		return
	}

	writeJSON(w, todos, http.StatusOK)
}

// GetTodo handles GET /getTodos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "error getting todo")
		return
	}

	writeJSON(w, todo, http.StatusOK)
}

// CreateTodo handles POST /createTodo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "error creating todo")
		return
	}

	writeJSON(w, model.MessageResponse{
		Message: "Create Successful!",
		Todo:    &todo,
	}, http.StatusCreated)
}

// UpdateTodo handles PUT /updateTodo/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req model.UpdateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	todo, err := h.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err, "error updating todo")
		return
	}

	writeJSON(w, model.MessageResponse{
		Message: fmt.Sprintf("Updated Todo with id %d.", id),
		Todo:    &todo,
	}, http.StatusOK)
}

// DeleteTodo handles DELETE /deleteTodo/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "error deleting todo")
		return
	}

	writeJSON(w, model.MessageResponse{
		Message: fmt.Sprintf("Deleted Todo with id %d.", id),
	}, http.StatusOK)
}

// writeServiceError maps store outcomes to responses. Unknown errors are
// logged and reported with the generic message.
func (h *TodoHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var (
		notFoundErr   repository.ErrTodoNotFound
		validationErr repository.ErrValidation
	)

	switch {
	case errors.As(err, &notFoundErr):
		writeError(w, "Todo not found", http.StatusNotFound)
	case errors.As(err, &validationErr):
		writeError(w, validationErr.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Error(message, "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, message, http.StatusInternalServerError)
	}
}

// parseID reads the {id} path value, writing a 400 when it is not an integer
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "invalid todo id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON payload into dst. A value of the wrong JSON type
// is a 422 naming the field; anything else unreadable is a 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		writeError(w, fmt.Sprintf("invalid %s: expected %s", typeErr.Field, jsonTypeName(typeErr.Type)), http.StatusUnprocessableEntity)
		return false
	}

	writeError(w, "invalid request format", http.StatusBadRequest)
	return false
}

// jsonTypeName names the JSON type a Go type decodes from
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, model.ErrorResponse{Error: message}, statusCode)
}
