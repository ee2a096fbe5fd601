package api

import (
	"context"

	"github.com/cirocosta/todo-service/internal/model"
)

// NoopTodoService satisfies TodoService without storing anything. It backs
// the router when only the OpenAPI document is needed.
type NoopTodoService struct{}

// NewNoopTodoService creates a new no-op todo service
func NewNoopTodoService() *NoopTodoService {
	return &NoopTodoService{}
}

// ListTodos implements TodoService
func (s *NoopTodoService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	return []model.Todo{}, nil
}

// GetTodo implements TodoService
func (s *NoopTodoService) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	return model.Todo{ID: id, Status: model.StatusPending}, nil
}

// CreateTodo implements TodoService
func (s *NoopTodoService) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	return model.Todo{Name: req.Name, Detail: req.Detail, Status: model.StatusPending}, nil
}

// UpdateTodo implements TodoService
func (s *NoopTodoService) UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) (model.Todo, error) {
	return req.Patch().Apply(model.Todo{ID: id, Status: model.StatusPending}), nil
}

// DeleteTodo implements TodoService
func (s *NoopTodoService) DeleteTodo(ctx context.Context, id int64) error {
	return nil
}
