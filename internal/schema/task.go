package schema

import (
	"net/url"
	"strconv"
	"strings"
)

// Task sort columns accepted by SearchTaskInput.SortBy.
const (
	SortByTaskName  = "task_name"
	SortByDueDate   = "due_date"
	SortByCreatedAt = "created_at"
)

// Filter status values accepted by the list query.
const (
	FilterStatusComplete   = "complete"
	FilterStatusIncomplete = "incomplete"
)

// CreateTaskInput is the create-task payload.
type CreateTaskInput struct {
	UserID     string         `json:"user_id" validate:"required"`
	TaskName   string         `json:"task_name" validate:"required"`
	DueDate    NullableTime   `json:"due_date,omitzero" validate:"-"`
	IsComplete Nullable[bool] `json:"is_complete,omitzero" validate:"-"`
}

// Complete returns is_complete with its default applied.
func (in CreateTaskInput) Complete() bool {
	return in.IsComplete.Valid && in.IsComplete.Value
}

// ParseCreateTask validates a create-task body. Any user_id in the body is replaced by ownerID.
func ParseCreateTask(data []byte, ownerID string) (CreateTaskInput, error) {
	var in CreateTaskInput
	verr := decode(data, &in)
	in.UserID = ownerID
	in.TaskName = strings.TrimSpace(in.TaskName)
	if !verr.Has("due_date") {
		in.DueDate.resolve("due_date", verr)
	}
	if !verr.Has("is_complete") && in.IsComplete.check("is_complete", verr) && !in.IsComplete.Set {
		in.IsComplete = Some(false)
	}
	return in, finish(verr, &in)
}

// UpdateTaskInput is a partial update: unset fields are left untouched and an
// explicit null due_date clears it. task_name and is_complete may not be null.
type UpdateTaskInput struct {
	TaskID     string           `json:"task_id" validate:"required"`
	TaskName   Nullable[string] `json:"task_name,omitzero" validate:"-"`
	DueDate    NullableTime     `json:"due_date,omitzero" validate:"-"`
	IsComplete Nullable[bool]   `json:"is_complete,omitzero" validate:"-"`
}

// HasChanges reports whether at least one updatable field was supplied.
func (in UpdateTaskInput) HasChanges() bool {
	return in.TaskName.Set || in.DueDate.Set || in.IsComplete.Set
}

// ParseUpdateTask validates an update body for taskID (the path id wins over the body).
func ParseUpdateTask(data []byte, taskID string) (UpdateTaskInput, error) {
	var in UpdateTaskInput
	verr := decode(data, &in)
	in.TaskID = taskID
	if !verr.Has("task_name") && in.TaskName.check("task_name", verr) && in.TaskName.Valid {
		in.TaskName.Value = strings.TrimSpace(in.TaskName.Value)
		if in.TaskName.Value == "" {
			verr.add("task_name", "min", "must be at least 1 characters")
		}
	}
	if !verr.Has("due_date") {
		in.DueDate.resolve("due_date", verr)
	}
	if !verr.Has("is_complete") {
		in.IsComplete.check("is_complete", verr)
	}
	return in, finish(verr, &in)
}

// SearchTaskInput is the list-tasks query.
type SearchTaskInput struct {
	UserID     string `json:"user_id"`
	Query      string `json:"query"`
	IsComplete *bool  `json:"is_complete"`
	Limit      int    `json:"limit" validate:"gt=0"`
	Offset     int    `json:"offset" validate:"gte=0"`
	SortBy     string `json:"sort_by" validate:"oneof=task_name due_date created_at"`
	SortOrder  string `json:"sort_order" validate:"oneof=asc desc"`
}

// NewSearchTaskInput returns a query populated with the defaults.
func NewSearchTaskInput() SearchTaskInput {
	return SearchTaskInput{
		Limit:     DefaultLimit,
		Offset:    DefaultOffset,
		SortBy:    SortByDueDate,
		SortOrder: DefaultSortOrder,
	}
}

// ParseSearchTask validates list-tasks query parameters.
//
// search_query takes precedence over query, and filter_status ("complete" or
// "incomplete") over is_complete.
func ParseSearchTask(values url.Values) (SearchTaskInput, error) {
	in := NewSearchTaskInput()
	verr := &ValidationError{}

	in.UserID = strings.TrimSpace(values.Get("user_id"))
	in.Query = values.Get("search_query")
	if in.Query == "" {
		in.Query = values.Get("query")
	}

	switch values.Get("filter_status") {
	case FilterStatusComplete:
		complete := true
		in.IsComplete = &complete
	case FilterStatusIncomplete:
		complete := false
		in.IsComplete = &complete
	default:
		if raw := strings.TrimSpace(values.Get("is_complete")); raw != "" {
			complete, err := strconv.ParseBool(raw)
			if err != nil {
				verr.add("is_complete", "boolean", "must be true or false")
			} else {
				in.IsComplete = &complete
			}
		}
	}

	parseInt(values, "limit", &in.Limit, verr)
	parseInt(values, "offset", &in.Offset, verr)
	if v := values.Get("sort_by"); v != "" {
		in.SortBy = v
	}
	if v := values.Get("sort_order"); v != "" {
		in.SortOrder = v
	}
	return in, finish(verr, &in)
}

func parseInt(values url.Values, key string, dst *int, verr *ValidationError) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.add(key, "integer", "must be an integer")
		return
	}
	*dst = n
}
