// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/platform/http/response"
)

// pingTimeout はヘルスチェック時のDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// PingFunc はデータベースへの簡単な往復を行います。
type PingFunc func(ctx context.Context) error

// HealthResponse is the body of a successful health check.
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Database    string `json:"database"`
	Environment string `json:"environment"`
}

// Health は /api/health エンドポイントを処理するハンドラーを返します。
// DBに接続できない場合も200で database: "disconnected" を返します。
// ハンドラー自体が失敗した場合のみ500です。
func Health(ping PingFunc, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				slog.Error("health check panicked", "panic", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status":    "error",
					"timestamp": response.Timestamp(time.Now()),
					"message":   "Health check failed",
				})
			}
		}()

		database := "connected"
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := ping(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			database = "disconnected"
		}

		c.JSON(http.StatusOK, HealthResponse{
			Status:      "ok",
			Timestamp:   response.Timestamp(time.Now()),
			Database:    database,
			Environment: environment,
		})
	}
}
