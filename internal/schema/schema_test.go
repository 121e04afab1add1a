package schema

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldRules flattens a validation error into field -> rule for easy comparison.
func fieldRules(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Rule
	}
	return out
}

func TestParseCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("normalizes email and name", func(t *testing.T) {
		t.Parallel()
		in, err := ParseCreateUser([]byte(`{"email":"  Alice@Example.COM ","password":"password123","name":"  Alice  "}`))
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", in.Email)
		assert.Equal(t, "Alice", in.Name)
		assert.Equal(t, "password123", in.Password)
	})

	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{
			name:     "every field invalid",
			body:     `{"email":"not-an-email","password":"short","name":"   "}`,
			expected: map[string]string{"email": "email", "password": "min", "name": "required"},
		},
		{
			name:     "empty body",
			body:     ``,
			expected: map[string]string{"email": "required", "password": "required", "name": "required"},
		},
		{
			name:     "wrong type reported once",
			body:     `{"email":123,"password":"password123","name":"Bob"}`,
			expected: map[string]string{"email": "type"},
		},
		{
			name:     "malformed json",
			body:     `{"email":`,
			expected: map[string]string{"body": "json", "email": "required", "password": "required", "name": "required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCreateUser([]byte(tt.body))
			assert.Equal(t, tt.expected, fieldRules(t, err))
		})
	}
}

func TestParseCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("absent due_date and defaults", func(t *testing.T) {
		t.Parallel()
		in, err := ParseCreateTask([]byte(`{"task_name":" Buy milk ","user_id":"someone-else"}`), "owner-1")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", in.UserID)
		assert.Equal(t, "Buy milk", in.TaskName)
		assert.False(t, in.DueDate.Set)
		assert.Nil(t, in.DueDate.Ptr())
		assert.False(t, in.Complete())
	})

	t.Run("explicit null due_date", func(t *testing.T) {
		t.Parallel()
		in, err := ParseCreateTask([]byte(`{"task_name":"x","due_date":null,"is_complete":true}`), "owner-1")
		require.NoError(t, err)
		assert.True(t, in.DueDate.Set)
		assert.False(t, in.DueDate.Valid)
		assert.True(t, in.Complete())
	})

	t.Run("date-coercible strings", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"2024-03-01", "2024-03-01T09:30:00Z", "2024-03-01T18:30:00+09:00"} {
			in, err := ParseCreateTask([]byte(`{"task_name":"x","due_date":"`+raw+`"}`), "owner-1")
			require.NoError(t, err, raw)
			require.NotNil(t, in.DueDate.Ptr(), raw)
			assert.Equal(t, time.UTC, in.DueDate.Time.Location(), raw)
			assert.Equal(t, 2024, in.DueDate.Time.Year(), raw)
		}
	})

	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{"unparsable date", `{"task_name":"x","due_date":"not a date"}`, map[string]string{"due_date": "date"}},
		{"numeric date", `{"task_name":"x","due_date":12}`, map[string]string{"due_date": "date"}},
		{"blank name", `{"task_name":"  "}`, map[string]string{"task_name": "required"}},
		{"non boolean completion", `{"task_name":"x","is_complete":"yes"}`, map[string]string{"is_complete": "type"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCreateTask([]byte(tt.body), "owner-1")
			assert.Equal(t, tt.expected, fieldRules(t, err))
		})
	}
}

func TestParseUpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("no fields", func(t *testing.T) {
		t.Parallel()
		in, err := ParseUpdateTask([]byte(`{}`), "task-1")
		require.NoError(t, err)
		assert.Equal(t, "task-1", in.TaskID)
		assert.False(t, in.HasChanges())
	})

	t.Run("path id wins over body", func(t *testing.T) {
		t.Parallel()
		in, err := ParseUpdateTask([]byte(`{"task_id":"other","is_complete":false}`), "task-1")
		require.NoError(t, err)
		assert.Equal(t, "task-1", in.TaskID)
		require.NotNil(t, in.IsComplete.Ptr())
		assert.False(t, *in.IsComplete.Ptr())
		assert.True(t, in.HasChanges())
	})

	t.Run("null due_date clears", func(t *testing.T) {
		t.Parallel()
		in, err := ParseUpdateTask([]byte(`{"due_date":null}`), "task-1")
		require.NoError(t, err)
		assert.True(t, in.HasChanges())
		assert.True(t, in.DueDate.Set)
		assert.Nil(t, in.DueDate.Ptr())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		t.Parallel()
		_, err := ParseUpdateTask([]byte(`{"task_name":" "}`), "task-1")
		assert.Equal(t, map[string]string{"task_name": "min"}, fieldRules(t, err))
	})
}

func TestParseSearchTask(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		in, err := ParseSearchTask(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, NewSearchTaskInput(), in)
		assert.Equal(t, 10, in.Limit)
		assert.Equal(t, "due_date", in.SortBy)
		assert.Equal(t, "desc", in.SortOrder)
	})

	t.Run("aliases and precedence", func(t *testing.T) {
		t.Parallel()
		in, err := ParseSearchTask(url.Values{
			"search_query":  {"milk"},
			"query":         {"bread"},
			"filter_status": {"complete"},
			"is_complete":   {"false"},
			"limit":         {"5"},
			"offset":        {"10"},
			"sort_by":       {"task_name"},
			"sort_order":    {"asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, "milk", in.Query)
		require.NotNil(t, in.IsComplete)
		assert.True(t, *in.IsComplete)
		assert.Equal(t, 5, in.Limit)
		assert.Equal(t, 10, in.Offset)
		assert.Equal(t, "task_name", in.SortBy)
		assert.Equal(t, "asc", in.SortOrder)
	})

	t.Run("is_complete used when filter_status is unknown", func(t *testing.T) {
		t.Parallel()
		in, err := ParseSearchTask(url.Values{"filter_status": {"all"}, "is_complete": {"false"}, "query": {"x"}})
		require.NoError(t, err)
		require.NotNil(t, in.IsComplete)
		assert.False(t, *in.IsComplete)
		assert.Equal(t, "x", in.Query)
	})

	tests := []struct {
		name     string
		values   url.Values
		expected map[string]string
	}{
		{"zero limit", url.Values{"limit": {"0"}}, map[string]string{"limit": "gt"}},
		{"negative offset", url.Values{"offset": {"-1"}}, map[string]string{"offset": "gte"}},
		{"non integer limit", url.Values{"limit": {"ten"}}, map[string]string{"limit": "integer"}},
		{"unknown sort column", url.Values{"sort_by": {"user_id; DROP TABLE tasks"}}, map[string]string{"sort_by": "oneof"}},
		{"unknown sort order", url.Values{"sort_order": {"sideways"}}, map[string]string{"sort_order": "oneof"}},
		{"bad completion flag", url.Values{"is_complete": {"maybe"}}, map[string]string{"is_complete": "boolean"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSearchTask(tt.values)
			assert.Equal(t, tt.expected, fieldRules(t, err))
		})
	}
}

func TestParseCreateSearchFilter(t *testing.T) {
	t.Parallel()

	in, err := ParseCreateSearchFilter([]byte(`{"search_query":null}`), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", in.UserID)
	assert.Equal(t, DefaultFilterStatus, in.FilterStatus)
	assert.True(t, in.SearchQuery.Set)
	assert.Nil(t, in.SearchQuery.Ptr())

	in, err = ParseCreateSearchFilter([]byte(`{"search_query":"milk","filter_status":"complete"}`), "owner-1")
	require.NoError(t, err)
	require.NotNil(t, in.SearchQuery.Ptr())
	assert.Equal(t, "milk", *in.SearchQuery.Ptr())
	assert.Equal(t, "complete", in.FilterStatus)

	_, err = ParseCreateSearchFilter([]byte(`{"search_query":42}`), "owner-1")
	assert.Equal(t, map[string]string{"search_query": "type"}, fieldRules(t, err))
}

func TestValidate_DeclaredVariants(t *testing.T) {
	t.Parallel()

	bad := "nope"
	err := Validate(&UpdateUserInput{UserID: "u1", Email: &bad})
	assert.Equal(t, map[string]string{"email": "email"}, fieldRules(t, err))

	assert.NoError(t, Validate(&UpdateUserInput{UserID: "u1"}))
	assert.NoError(t, Validate(ptr(NewSearchUserInput())))
	assert.NoError(t, Validate(ptr(NewSearchAuthTokenInput())))
	assert.NoError(t, Validate(ptr(NewSearchSearchFilterInput())))

	err = Validate(&CreateAuthTokenInput{UserID: "u1"})
	assert.Equal(t, map[string]string{"auth_token": "required"}, fieldRules(t, err))
}

func TestNullableTime_MarshalOmitsUnset(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(UpdateTaskInput{TaskID: "t1", TaskName: Some("renamed")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"t1","task_name":"renamed"}`, string(b))

	b, err = json.Marshal(UpdateTaskInput{TaskID: "t1", DueDate: NullTime()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"t1","due_date":null}`, string(b))

	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b, err = json.Marshal(UpdateTaskInput{TaskID: "t1", DueDate: SomeTime(due)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"t1","due_date":"2024-03-01T00:00:00Z"}`, string(b))
}

func ptr[T any](v T) *T { return &v }

func TestParseTask_RejectsNullForRequiredValues(t *testing.T) {
	t.Parallel()

	updates := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{"null name", `{"task_name":null}`, map[string]string{"task_name": "null"}},
		{"null name next to a valid field", `{"task_name":null,"is_complete":true}`, map[string]string{"task_name": "null"}},
		{"null completion", `{"is_complete":null}`, map[string]string{"is_complete": "null"}},
		{"mistyped name", `{"task_name":7}`, map[string]string{"task_name": "type"}},
	}
	for _, tt := range updates {
		t.Run("update "+tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseUpdateTask([]byte(tt.body), "task-1")
			assert.Equal(t, tt.expected, fieldRules(t, err))
		})
	}

	t.Run("create null completion", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCreateTask([]byte(`{"task_name":"x","is_complete":null}`), "owner-1")
		assert.Equal(t, map[string]string{"is_complete": "null"}, fieldRules(t, err))
	})

	t.Run("create explicit false", func(t *testing.T) {
		t.Parallel()
		in, err := ParseCreateTask([]byte(`{"task_name":"x","is_complete":false}`), "owner-1")
		require.NoError(t, err)
		assert.True(t, in.IsComplete.Set)
		assert.False(t, in.Complete())
	})

	t.Run("update trims name", func(t *testing.T) {
		t.Parallel()
		in, err := ParseUpdateTask([]byte(`{"task_name":"  renamed "}`), "task-1")
		require.NoError(t, err)
		require.NotNil(t, in.TaskName.Ptr())
		assert.Equal(t, "renamed", *in.TaskName.Ptr())
	})
}
