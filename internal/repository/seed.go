package repository

import "github.com/cirocosta/todo-service/internal/model"

// SeedTodos returns the sample records loaded at cold start
func SeedTodos() []model.Todo {
	return []model.Todo{
		{ID: 1, Name: ptr("Buy groceries"), Detail: ptr("Milk, Bread, Eggs"), Status: model.StatusPending},
		{ID: 2, Name: ptr("Complete homework"), Detail: ptr("Math exercises"), Status: model.StatusInProcess},
		{ID: 3, Name: ptr("Call mom"), Status: model.StatusCompleted},
		{ID: 4, Name: ptr("Read a book"), Detail: ptr("The Catcher in the Rye"), Status: model.StatusPending},
		{ID: 5, Name: ptr("Prepare dinner"), Detail: ptr("Pasta and salad"), Status: model.StatusInProcess},
	}
}

func ptr(s string) *string {
	return &s
}
