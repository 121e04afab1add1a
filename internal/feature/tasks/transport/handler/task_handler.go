// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/tasks/domain"
	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/transport/http/dto"
	"todo_backend/internal/platform/http/response"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/schema"
)

// TaskUsecase はタスク操作のユースケースを定義します。
type TaskUsecase interface {
	List(ctx context.Context, requesterID string, in schema.SearchTaskInput) ([]entity.Task, error)
	Create(ctx context.Context, in schema.CreateTaskInput) (*entity.Task, error)
	Get(ctx context.Context, requesterID, taskID string) (*entity.Task, error)
	Update(ctx context.Context, requesterID string, in schema.UpdateTaskInput) (*entity.Task, error)
	Delete(ctx context.Context, requesterID, taskID string) error
}

// TaskHandler はタスクAPIのHTTPリクエストを処理します。
// すべてのルートは jwtmw.AuthRequired の後ろに登録される前提です。
type TaskHandler struct {
	tasks TaskUsecase
}

// NewTaskHandler はTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List は GET /api/tasks を処理します。
func (h *TaskHandler) List(c *gin.Context) {
	in, err := schema.ParseSearchTask(c.Request.URL.Query())
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", response.CodeValidation, err)
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), c.GetString(jwtmw.ContextUserID), in)
	if err != nil {
		h.fail(c, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskListResponse(tasks))
}

// Create は POST /api/tasks を処理します。ボディの user_id は認証済みユーザーで上書きされます。
func (h *TaskHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", response.CodeValidation, err)
		return
	}

	in, err := schema.ParseCreateTask(body, c.GetString(jwtmw.ContextUserID))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", response.CodeValidation, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "create task", err)
		return
	}
	slog.Info("task created", "task_id", task.ID, "user_id", task.UserID)
	c.JSON(http.StatusCreated, dto.NewTaskResponse(task))
}

// Get は GET /api/tasks/:task_id を処理します。
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.GetString(jwtmw.ContextUserID), c.Param("task_id"))
	if err != nil {
		h.fail(c, "get task", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Update は PATCH /api/tasks/:task_id を処理します。
// 存在と所有者を確認してからボディを検証します。
func (h *TaskHandler) Update(c *gin.Context) {
	userID := c.GetString(jwtmw.ContextUserID)
	taskID := c.Param("task_id")

	if _, err := h.tasks.Get(c.Request.Context(), userID, taskID); err != nil {
		h.fail(c, "update task", err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", response.CodeValidation, err)
		return
	}
	in, err := schema.ParseUpdateTask(body, taskID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", response.CodeValidation, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, in)
	if err != nil {
		h.fail(c, "update task", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTaskResponse(task))
}

// Delete は DELETE /api/tasks/:task_id を処理し、成功時は204を返します。
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.GetString(jwtmw.ContextUserID), c.Param("task_id")); err != nil {
		h.fail(c, "delete task", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail はドメインエラーをHTTPステータスとエラーコードに変換します。
func (h *TaskHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "Task not found", response.CodeTaskNotFound, err)
	case errors.Is(err, domain.ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "Access denied", response.CodeAccessDenied, err)
	case errors.Is(err, domain.ErrNoUpdateFields):
		response.Error(c, http.StatusBadRequest, "No valid fields to update", response.CodeNoUpdateFields, err)
	default:
		slog.Error(op+" failed", "user_id", c.GetString(jwtmw.ContextUserID), "error", err)
		response.Error(c, http.StatusInternalServerError, "Failed to "+op, response.CodeInternal, err)
	}
}
