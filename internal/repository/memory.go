package repository

import (
	"context"
	"sync"

	"github.com/cirocosta/todo-service/internal/model"
)

// InMemoryTodoRepository implements TodoRepository with an ordered slice.
// All reads and writes, including id allocation, go through mutex.
type InMemoryTodoRepository struct {
	todos  []model.Todo
	nextID int64
	mutex  sync.RWMutex
}

// NewInMemoryTodoRepository creates a new in-memory todo repository with optional initial data.
// The first id handed out is one past the largest seeded id.
func NewInMemoryTodoRepository(seed ...model.Todo) *InMemoryTodoRepository {
	repo := &InMemoryTodoRepository{
		todos:  make([]model.Todo, 0, len(seed)),
		nextID: 1,
	}

	for _, todo := range seed {
		repo.todos = append(repo.todos, todo.Clone())
		if todo.ID >= repo.nextID {
			repo.nextID = todo.ID + 1
		}
	}

	return repo
}

// FindAll returns all todos
func (r *InMemoryTodoRepository) FindAll(ctx context.Context) ([]model.Todo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo.Clone())
	}

	return todos, nil
}

// FindByID returns a specific todo by ID
func (r *InMemoryTodoRepository) FindByID(ctx context.Context, id int64) (model.Todo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Todo{}, ErrTodoNotFound{ID: id}
	}

	return r.todos[i].Clone(), nil
}

// Create adds a new todo
func (r *InMemoryTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	todo = todo.Clone()
	todo.ID = r.nextID
	todo.Status = model.StatusPending
	r.nextID++

	r.todos = append(r.todos, todo)
	return todo.Clone(), nil
}

// Update modifies an existing todo in place, keeping its position
func (r *InMemoryTodoRepository) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Todo{}, ErrTodoNotFound{ID: id}
	}

	if err := validatePatch(patch); err != nil {
		return model.Todo{}, err
	}

	updated := patch.Apply(r.todos[i].Clone())
	r.todos[i] = updated

	return updated.Clone(), nil
}

// Delete removes a todo. Its id stays retired.
func (r *InMemoryTodoRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrTodoNotFound{ID: id}
	}

	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return nil
}

// indexOf must be called with the mutex held
func (r *InMemoryTodoRepository) indexOf(id int64) int {
	for i, todo := range r.todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}
