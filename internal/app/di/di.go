// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"todo_backend/internal/app/config"
	"todo_backend/internal/app/router"
	authadapters "todo_backend/internal/feature/auth/adapters"
	authhandler "todo_backend/internal/feature/auth/transport/handler"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskadapters "todo_backend/internal/feature/tasks/adapters"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/cache"
	"todo_backend/internal/platform/db"
	healthhandler "todo_backend/internal/platform/http/handler"
	jwtmw "todo_backend/internal/platform/jwt"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, lookups by id are cached in Redis.
// Otherwise, the database repository is used directly.
func NewUserRepository(rdb *redis.Client, gdb *gorm.DB, ttl time.Duration) authusecase.UserRepository {
	repo := authadapters.NewUserGorm(gdb)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
	}
	return repo
}

// NewServer wires repositories, usecases and handlers into the HTTP engine.
// rdb may be nil.
func NewServer(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) *gin.Engine {
	// Repository
	userRepo := NewUserRepository(rdb, gdb, cfg.UserCacheTTL)
	tokenRepo := authadapters.NewAuthTokenGorm(gdb)
	taskRepo := taskadapters.NewTaskGorm(gdb)

	// Token
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokenRepo, tokens)
	taskUC := taskusecase.NewTaskUsecase(taskRepo)

	// Handler
	return router.NewRouter(router.Handlers{
		Auth:  authhandler.NewAuthHandler(authUC),
		Tasks: taskhandler.NewTaskHandler(taskUC),
		Guard: jwtmw.AuthRequired(tokens, userRepo),
		Health: healthhandler.Health(func(ctx context.Context) error {
			return db.Ping(ctx, gdb)
		}, cfg.NodeEnv),
	}, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Debug:          cfg.IsDevelopment(),
	})
}
