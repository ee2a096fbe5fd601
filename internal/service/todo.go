// package service implements business logic for the application
package service

import (
	"context"
	"log/slog"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/repository"
)

// TodoService handles business logic for todo operations
type TodoService struct {
	log  *slog.Logger
	repo repository.TodoRepository
}

// NewTodoService creates a new todo service with the given repository
func NewTodoService(log *slog.Logger, repo repository.TodoRepository) *TodoService {
	return &TodoService{
		log:  log,
		repo: repo,
	}
}

// ListTodos returns all todos
func (s *TodoService) ListTodos(ctx context.Context) ([]model.Todo, error) {
	return s.repo.FindAll(ctx)
}

// GetTodo returns a todo by ID
func (s *TodoService) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateTodo creates a new todo. A client supplied id or status is dropped.
func (s *TodoService) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	todo, err := s.repo.Create(ctx, model.Todo{
		Name:   req.Name,
		Detail: req.Detail,
	})
	if err != nil {
		return model.Todo{}, err
	}

	s.log.Debug("todo created", "id", todo.ID)
	return todo, nil
}

// UpdateTodo applies the fields present in req to an existing todo
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) (model.Todo, error) {
	todo, err := s.repo.Update(ctx, id, req.Patch())
	if err != nil {
		return model.Todo{}, err
	}

	s.log.Debug("todo updated", "id", id, "status", todo.Status)
	return todo, nil
}

// DeleteTodo deletes a todo
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Debug("todo deleted", "id", id)
	return nil
}
