// Package domain defines errors and query types shared by the tasks feature layers.
package domain

import "errors"

var (
	// ErrTaskNotFound indicates that no task exists with the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAccessDenied indicates that the task (or listing) belongs to another user.
	ErrAccessDenied = errors.New("access denied")

	// ErrNoUpdateFields indicates a partial update that carried no recognized field.
	ErrNoUpdateFields = errors.New("no fields to update")
)
