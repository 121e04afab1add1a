package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/platform/http/response"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// Verifier checks a raw token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// UserFinder looks up the account a token belongs to.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that validates the bearer token, loads the
// user it names and attaches both to the request context.
func AuthRequired(verifier Verifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorizationヘッダーからトークンを取得
		// スキーム名は大文字小文字を区別しない (RFC 9110)
		scheme, tokenStr, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			response.Error(c, http.StatusUnauthorized, "Access token is required", response.CodeTokenMissing, nil)
			return
		}

		// 2. 署名と有効期限を検証
		claims, err := verifier.Verify(strings.TrimSpace(tokenStr))
		if err != nil {
			response.Error(c, http.StatusForbidden, "Invalid or expired token", response.CodeTokenInvalid, err)
			return
		}

		// 3. ユーザーが現存するか確認
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				response.Error(c, http.StatusUnauthorized, "User not found", response.CodeAuthUserNotFound, err)
				return
			}
			slog.Error("auth guard user lookup failed", "user_id", claims.UserID, "error", err)
			response.Error(c, http.StatusInternalServerError, "Internal server error", response.CodeInternal, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
