// Package dto defines data transfer objects for the tasks feature's HTTP transport layer.
package dto

import (
	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/platform/http/response"
)

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	TaskID     string  `json:"task_id"`
	UserID     string  `json:"user_id"`
	TaskName   string  `json:"task_name"`
	DueDate    *string `json:"due_date"`
	IsComplete bool    `json:"is_complete"`
	CreatedAt  string  `json:"created_at"`
}

// NewTaskResponse converts t. A missing due date is rendered as null.
func NewTaskResponse(t *entity.Task) TaskResponse {
	res := TaskResponse{
		TaskID:     t.ID,
		UserID:     t.UserID,
		TaskName:   t.Name,
		IsComplete: t.IsComplete,
		CreatedAt:  response.Timestamp(t.CreatedAt),
	}
	if t.DueDate != nil {
		due := response.Timestamp(*t.DueDate)
		res.DueDate = &due
	}
	return res
}

// NewTaskListResponse converts tasks, always returning a non-nil slice.
func NewTaskListResponse(tasks []entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}
