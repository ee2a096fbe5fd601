package repository

import (
	"context"

	"github.com/cirocosta/todo-service/internal/model"
)

// TodoRepository defines the interface for todo data access.
// Implementations own id assignment: ids grow monotonically and a
// deleted id is never handed out again.
type TodoRepository interface {
	// FindAll returns all todos in insertion order
	FindAll(ctx context.Context) ([]model.Todo, error)

	// FindByID returns a specific todo by ID
	FindByID(ctx context.Context, id int64) (model.Todo, error)

	// Create stores a new todo. The ID and Status of the argument are
	// ignored: the next id is assigned and the status is always pending.
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)

	// Update merges the set fields of patch into an existing todo
	Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)

	// Delete removes a todo
	Delete(ctx context.Context, id int64) error
}
