// Package client はタスク管理APIのGoクライアントとセッションストアを提供します。
package client

// User is the account returned by register, login and verify.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Session is a successful register or login response.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Task mirrors the server's task representation. DueDate is nil when unset.
type Task struct {
	TaskID     string  `json:"task_id"`
	UserID     string  `json:"user_id"`
	TaskName   string  `json:"task_name"`
	DueDate    *string `json:"due_date"`
	IsComplete bool    `json:"is_complete"`
	CreatedAt  string  `json:"created_at"`
}

// ListTasksParams are the optional list-tasks query parameters. Zero values are omitted.
type ListTasksParams struct {
	SearchQuery  string
	FilterStatus string
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}
