package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_backend/internal/app/config"
	"todo_backend/internal/app/di"
	"todo_backend/internal/platform/db"
)

type harness struct {
	t       *testing.T
	baseURL string
	dir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	srv := httptest.NewServer(di.NewServer(&config.Config{
		NodeEnv:      "test",
		JWTSecret:    "taskctl-secret",
		JWTTTL:       time.Hour,
		UserCacheTTL: time.Minute,
	}, gdb, nil))
	t.Cleanup(srv.Close)

	return &harness{t: t, baseURL: srv.URL, dir: t.TempDir()}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-api", h.baseURL, "-session-dir", h.dir}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTaskctl_Session(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("whoami")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "not logged in")

	code, out, stderr := h.run("register", "-email", "alice@example.com", "-password", "password123", "-name", "Alice")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "Alice <alice@example.com>")

	// the session survives between invocations
	code, out, _ = h.run("whoami")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "alice@example.com")

	code, _, stderr = h.run("login", "-email", "alice@example.com", "-password", "wrong-password")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "Invalid")

	code, _, _ = h.run("whoami")
	assert.Equal(t, exitFailure, code, "a failed login clears the session")

	code, _, stderr = h.run("login", "-email", "alice@example.com", "-password", "password123")
	require.Equal(t, exitSuccess, code, stderr)

	code, out, _ = h.run("logout")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "logged out")
	code, _, _ = h.run("list")
	assert.Equal(t, exitFailure, code)
}

func TestTaskctl_Tasks(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run("register", "-email", "bob@example.com", "-password", "password123", "-name", "Bob")
	require.Equal(t, exitSuccess, code, stderr)

	code, out, stderr := h.run("add", "-due", "2024-03-01", "Buy", "milk")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "2024-03-01T00:00:00.000Z")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	id := strings.Fields(lines[1])[0]

	code, out, _ = h.run("update", "-done", "true", "-due", "none", id)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "  -  ")

	code, out, _ = h.run("list", "-status", "complete", "-q", "MILK")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, id)

	code, _, _ = h.run("rm", id)
	assert.Equal(t, exitSuccess, code)

	code, _, stderr = h.run("show", id)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "TASK_NOT_FOUND")
}

func TestTaskctl_Usage(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{"frobnicate"},
		{"add"},
		{"update", "-done", "maybe", "t1"},
		{"show"},
	}
	for _, args := range tests {
		code, _, _ := h.run(args...)
		assert.Equal(t, exitInvalidUsage, code, strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	assert.Equal(t, exitInvalidUsage, run(context.Background(), nil, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "usage")
}
