// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/transport/http/dto"
	"todo_backend/internal/feature/auth/usecase"
	"todo_backend/internal/platform/http/response"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/schema"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンを発行します。
	Register(ctx context.Context, in schema.CreateUserInput) (*usecase.Session, error)
	// Login はユーザーを認証し、成功時に新しいトークンを発行します。
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	// Profile は requesterID 本人の userID プロフィールを返します。
	Profile(ctx context.Context, requesterID, userID string) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 空のボディは400 MISSING_REQUEST_BODY
// - スキーマ違反は400 VALIDATION_ERROR
// - メール重複は400 USER_ALREADY_EXISTS
// - 成功時は201で {user, token} を返却
func (h *AuthHandler) Register(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		response.Error(c, http.StatusBadRequest, "Request body is required", response.CodeMissingRequestBody, err)
		return
	}

	in, err := schema.ParseCreateUser(body)
	if err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, http.StatusBadRequest, "Validation failed", response.CodeValidation, err)
		return
	}

	sess, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			slog.Warn("register rejected: email taken", "remote_addr", c.ClientIP())
			response.Error(c, http.StatusBadRequest, "User with this email already exists", response.CodeUserAlreadyExists, err)
			return
		}
		slog.Error("register failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to register user", response.CodeInternal, err)
		return
	}

	slog.Info("user registered", "user_id", sess.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SessionResponse{User: dto.NewUserResponse(sess.User), Token: sess.Token})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// ユーザー列挙攻撃を防止するため、ユーザー不在とパスワード不一致は同じレスポンスになります。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Email and password are required", response.CodeMissingRequiredField, err)
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			response.Error(c, http.StatusBadRequest, "Invalid email or password", response.CodeInvalidCredentials, err)
			return
		}
		slog.Error("login failed", "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to log in", response.CodeInternal, err)
		return
	}

	slog.Info("user login successful", "user_id", sess.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.SessionResponse{User: dto.NewUserResponse(sess.User), Token: sess.Token})
}

// Verify はガードが解決したユーザーを返します。
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Access token is required", response.CodeTokenMissing, nil)
		return
	}
	c.JSON(http.StatusOK, dto.VerifyResponse{User: dto.NewUserResponse(user)})
}

// GetProfile は GET /api/users/:user_id を処理します。本人以外は403です。
func (h *AuthHandler) GetProfile(c *gin.Context) {
	requester := c.GetString(jwtmw.ContextUserID)

	user, err := h.auth.Profile(c.Request.Context(), requester, c.Param("user_id"))
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "Access denied", response.CodeAccessDenied, err)
		return
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", response.CodeUserNotFound, err)
		return
	case err != nil:
		slog.Error("get profile failed", "user_id", requester, "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to get user", response.CodeInternal, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}
