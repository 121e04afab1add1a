package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	platformhttp "todo_backend/internal/platform/http"
	"todo_backend/internal/schema"
)

// DefaultTimeout はリクエスト全体のタイムアウトです。
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// API calls the task manager HTTP endpoints.
type API struct {
	baseURL string
	hc      *http.Client
}

// NewAPI returns a client for baseURL. A nil hc uses a tuned client with DefaultTimeout.
func NewAPI(baseURL string, hc *http.Client) *API {
	if hc == nil {
		hc = platformhttp.NewHTTPClient(DefaultTimeout)
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Register creates an account and returns its first session.
func (a *API) Register(ctx context.Context, email, password, name string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a new session.
func (a *API) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify returns the user a token belongs to.
func (a *API) Verify(ctx context.Context, token string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListTasks returns one page of the caller's tasks.
func (a *API) ListTasks(ctx context.Context, token string, p ListTasksParams) ([]Task, error) {
	q := url.Values{}
	setNonEmpty(q, "search_query", p.SearchQuery)
	setNonEmpty(q, "filter_status", p.FilterStatus)
	setNonEmpty(q, "sort_by", p.SortBy)
	setNonEmpty(q, "sort_order", p.SortOrder)
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}

	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	tasks := make([]Task, 0)
	if err := a.do(ctx, http.MethodGet, path, token, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task owned by the token's user. in.UserID is ignored by the server.
func (a *API) CreateTask(ctx context.Context, token string, in schema.CreateTaskInput) (*Task, error) {
	var out Task
	if err := a.do(ctx, http.MethodPost, "/api/tasks", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTask fetches a single task.
func (a *API) GetTask(ctx context.Context, token, taskID string) (*Task, error) {
	var out Task
	if err := a.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask sends a partial update. Unset fields in in are not sent.
func (a *API) UpdateTask(ctx context.Context, token string, in schema.UpdateTaskInput) (*Task, error) {
	var out Task
	if err := a.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(in.TaskID), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (a *API) DeleteTask(ctx context.Context, token, taskID string) error {
	return a.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), token, nil, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		// JSONでないボディはステータスのみで扱う
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
