package domain

import "time"

// SortOrder values.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// TaskFilter is a list query that is always scoped to one owner.
type TaskFilter struct {
	UserID     string
	Query      string
	IsComplete *bool
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// TaskChanges lists the fields of a partial update. A nil pointer leaves the column
// untouched; SetDueDate with a nil DueDate clears it.
type TaskChanges struct {
	Name       *string
	SetDueDate bool
	DueDate    *time.Time
	IsComplete *bool
}

// Empty reports whether no column would change.
func (c TaskChanges) Empty() bool {
	return c.Name == nil && !c.SetDueDate && c.IsComplete == nil
}
