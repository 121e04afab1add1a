package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
)

func newPanickingRouter(health gin.HandlerFunc, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Handlers{
		Auth:   authhandler.NewAuthHandler(nil),
		Tasks:  taskhandler.NewTaskHandler(nil),
		Guard:  func(c *gin.Context) { c.Next() },
		Health: health,
	}, Options{Debug: debug})
}

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name        string
		debug       bool
		wantDetails bool
	}{
		{"production hides details", false, false},
		{"development shows details", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newPanickingRouter(func(*gin.Context) { panic("kaboom") }, tt.debug)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "UNHANDLED_ERROR", body["error_code"])
			_, hasDetails := body["details"]
			assert.Equal(t, tt.wantDetails, hasDetails)
		})
	}
}

func TestRecoverJSON_AfterHeadersSent(t *testing.T) {
	r := newPanickingRouter(func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	}, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	r := newPanickingRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig_Wildcard(t *testing.T) {
	cfg := corsConfig([]string{"*"})
	assert.True(t, cfg.AllowOriginFunc("https://anything.example"))

	cfg = corsConfig([]string{"http://localhost:5173"})
	assert.True(t, cfg.AllowOriginFunc("http://localhost:5173"))
	assert.False(t, cfg.AllowOriginFunc("http://localhost:3000"))
}
