// package repository provides data access and error types
package repository

import (
	"fmt"
	"strings"

	"github.com/cirocosta/todo-service/internal/model"
)

// ErrTodoNotFound is returned when a todo with the specified ID does not exist
type ErrTodoNotFound struct {
	ID int64
}

// Error implements the error interface
func (e ErrTodoNotFound) Error() string {
	return fmt.Sprintf("todo with id %d not found", e.ID)
}

// ErrValidation is returned when a field carries a value the store refuses to persist
type ErrValidation struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// validatePatch checks the fields a patch would write
func validatePatch(patch model.TodoPatch) error {
	if status, ok := patch.Status.Get(); ok && !status.IsValid() {
		return ErrValidation{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not one of %s", status, statusList()),
		}
	}
	return nil
}

func statusList() string {
	statuses := model.TodoStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
