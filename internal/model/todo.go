// package model contains the data models for the todo service
package model

// TodoStatus is the lifecycle state of a todo item
type TodoStatus string

const (
	StatusPending   TodoStatus = "pending"
	StatusInProcess TodoStatus = "in_process"
	StatusCompleted TodoStatus = "completed"
)

// TodoStatuses returns every valid status in declaration order
func TodoStatuses() []TodoStatus {
	return []TodoStatus{StatusPending, StatusInProcess, StatusCompleted}
}

// IsValid reports whether s is one of the enumerated statuses.
// Any valid status may follow any other; there is no terminal state.
func (s TodoStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProcess, StatusCompleted:
		return true
	default:
		return false
	}
}

// Todo represents a todo item in the system
type Todo struct {
	ID     int64      `json:"id" db:"id" doc:"Unique identifier assigned by the store" example:"6"`
	Name   *string    `json:"name" db:"name" doc:"Short label of the todo item" example:"Buy groceries"`
	Detail *string    `json:"detail" db:"detail" doc:"Optional free-form detail" example:"Milk, Bread, Eggs"`
	Status TodoStatus `json:"status" db:"status" doc:"Lifecycle status" enum:"pending,in_process,completed" example:"pending"`
}

// TodoPatch is a partial update: only fields marked Set are applied
type TodoPatch struct {
	Name   Optional[*string]
	Detail Optional[*string]
	Status Optional[TodoStatus]
}

// IsEmpty reports whether the patch changes nothing
func (p TodoPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Detail.Set && !p.Status.Set
}

// Apply merges the set fields of p into todo. The id is never touched.
func (p TodoPatch) Apply(todo Todo) Todo {
	if p.Name.Set {
		todo.Name = cloneString(p.Name.Value)
	}
	if p.Detail.Set {
		todo.Detail = cloneString(p.Detail.Value)
	}
	if p.Status.Set {
		todo.Status = p.Status.Value
	}
	return todo
}

// Clone returns a copy of t that shares no pointers with it
func (t Todo) Clone() Todo {
	t.Name = cloneString(t.Name)
	t.Detail = cloneString(t.Detail)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CreateTodoRequest is used when creating a new todo item.
// ID and Status are accepted for compatibility and ignored.
type CreateTodoRequest struct {
	ID     *int64      `json:"id,omitempty" doc:"Ignored, ids are assigned by the store"`
	Name   *string     `json:"name,omitempty" doc:"Short label of the todo item" example:"Buy groceries"`
	Detail *string     `json:"detail,omitempty" doc:"Optional free-form detail" example:"Milk, Bread, Eggs"`
	Status *TodoStatus `json:"status,omitempty" doc:"Ignored, new items always start pending" enum:"pending,in_process,completed"`
}

// UpdateTodoRequest is used when updating an existing todo item.
// Keys missing from the payload keep their stored value.
type UpdateTodoRequest struct {
	ID     Optional[int64]      `json:"id,omitzero" doc:"Ignored, ids are immutable"`
	Name   Optional[*string]    `json:"name,omitzero" doc:"New label" example:"Buy groceries"`
	Detail Optional[*string]    `json:"detail,omitzero" doc:"New detail, null clears it" example:"Milk, Bread, Eggs"`
	Status Optional[TodoStatus] `json:"status,omitzero" doc:"New status" enum:"pending,in_process,completed"`
}

// Patch converts the request into a store patch
func (r UpdateTodoRequest) Patch() TodoPatch {
	return TodoPatch{
		Name:   r.Name,
		Detail: r.Detail,
		Status: r.Status,
	}
}

// MessageResponse acknowledges a mutation
type MessageResponse struct {
	Message string `json:"message" doc:"Human readable outcome" example:"Create Successful!"`
	Todo    *Todo  `json:"todo,omitempty" doc:"The affected todo item"`
}

// ErrorResponse represents an error returned by the API
type ErrorResponse struct {
	Error string `json:"error" doc:"Error message" example:"Todo not found"`
}
