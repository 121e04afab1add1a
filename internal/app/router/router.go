// Package router builds the gin engine and the route table.
package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	"todo_backend/internal/platform/http/response"
)

// Handlers groups the endpoint handlers and the auth guard.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Tasks  *taskhandler.TaskHandler
	Health gin.HandlerFunc
	// Guard は認証必須ルートの前に適用されます。
	Guard gin.HandlerFunc
}

// Options are the cross-cutting settings of the engine.
type Options struct {
	// AllowedOrigins は CORS の許可リストです。"*" は全オリジンを許可します。
	AllowedOrigins []string
	// Debug を有効にするとエラーレスポンスに details が含まれます。
	Debug bool
}

// NewRouter はミドルウェアとルートを登録した gin.Engine を返します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestLogger(),
		gin.CustomRecovery(recoverJSON),
		cors.New(corsConfig(opts.AllowedOrigins)),
		response.Debug(opts.Debug),
	)
	r.NoRoute(notFound)

	api := r.Group("/api")

	// 認証不要
	// 導通確認用
	api.GET("/health", h.Health)
	api.HEAD("/health", h.Health)

	auth := api.Group("/auth")
	// 新規ユーザー登録
	auth.POST("/register", h.Auth.Register)
	// ログイン（JWT 発行）
	auth.POST("/login", h.Auth.Login)
	auth.GET("/verify", h.Guard, h.Auth.Verify)

	// 認証必須のルート
	users := api.Group("/users", h.Guard)
	users.GET("/:user_id", h.Auth.GetProfile)

	tasks := api.Group("/tasks", h.Guard)
	{
		tasks.GET("", h.Tasks.List)
		tasks.POST("", h.Tasks.Create)
		tasks.GET("/:task_id", h.Tasks.Get)
		tasks.PATCH("/:task_id", h.Tasks.Update)
		tasks.DELETE("/:task_id", h.Tasks.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	allowAll := slices.Contains(origins, "*")
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowAll || slices.Contains(origins, origin)
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
		response.Error(c, http.StatusNotFound, "API endpoint not found", response.CodeEndpointNotFound, nil)
		return
	}
	response.Error(c, http.StatusNotFound, "Not found", "", nil)
}

// recoverJSON is the last-resort handler. Once headers are out nothing more is written.
func recoverJSON(c *gin.Context, rec any) {
	if c.Writer.Written() {
		c.Abort()
		return
	}
	response.Error(c, http.StatusInternalServerError, "Internal server error", response.CodeUnhandled, fmt.Errorf("panic: %v", rec))
}
