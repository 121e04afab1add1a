// Package usecase はtasksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo_backend/internal/feature/tasks/domain"
	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/schema"
)

// TaskRepository はタスクの永続化層を抽象化します。
// Update と Delete は (task_id, user_id) を条件にした単一文で実行され、
// 該当行がない場合は domain.ErrTaskNotFound を返します。
type TaskRepository interface {
	Search(ctx context.Context, filter domain.TaskFilter) ([]entity.Task, error)
	Create(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, id, ownerID string, changes domain.TaskChanges) (*entity.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// TaskUsecase はタスク操作を提供します。すべての操作は呼び出し元ユーザーに限定されます。
type TaskUsecase struct {
	repo TaskRepository

	newID func() string
	now   func() time.Time
}

// NewTaskUsecase はTaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(repo TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo, newID: uuid.NewString, now: time.Now}
}

// List は requesterID のタスクを検索します。
// 他ユーザーの user_id が指定された場合は無視せず domain.ErrAccessDenied を返します。
func (u *TaskUsecase) List(ctx context.Context, requesterID string, in schema.SearchTaskInput) ([]entity.Task, error) {
	if in.UserID != "" && in.UserID != requesterID {
		return nil, domain.ErrAccessDenied
	}

	tasks, err := u.repo.Search(ctx, domain.TaskFilter{
		UserID:     requesterID,
		Query:      in.Query,
		IsComplete: in.IsComplete,
		SortBy:     in.SortBy,
		SortOrder:  in.SortOrder,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

// Create は新しいタスクを作成します。in.UserID は呼び出し元で認証済みユーザーに強制されています。
func (u *TaskUsecase) Create(ctx context.Context, in schema.CreateTaskInput) (*entity.Task, error) {
	task := &entity.Task{
		ID:         u.newID(),
		UserID:     in.UserID,
		Name:       in.TaskName,
		DueDate:    in.DueDate.Ptr(),
		IsComplete: in.Complete(),
		CreatedAt:  u.now().UTC(),
	}
	if err := u.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Get はタスクを取得します。存在しなければ ErrTaskNotFound、所有者が異なれば ErrAccessDenied です。
func (u *TaskUsecase) Get(ctx context.Context, requesterID, taskID string) (*entity.Task, error) {
	task, err := u.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != requesterID {
		return nil, domain.ErrAccessDenied
	}
	return task, nil
}

// Update は指定されたフィールドのみを更新し、更新後の状態を返します。
func (u *TaskUsecase) Update(ctx context.Context, requesterID string, in schema.UpdateTaskInput) (*entity.Task, error) {
	if !in.HasChanges() {
		return nil, domain.ErrNoUpdateFields
	}

	changes := domain.TaskChanges{
		Name:       in.TaskName.Ptr(),
		SetDueDate: in.DueDate.Set,
		DueDate:    in.DueDate.Ptr(),
		IsComplete: in.IsComplete.Ptr(),
	}
	return u.repo.Update(ctx, in.TaskID, requesterID, changes)
}

// Delete は所有者確認の後にタスクを削除します。
func (u *TaskUsecase) Delete(ctx context.Context, requesterID, taskID string) error {
	if _, err := u.Get(ctx, requesterID, taskID); err != nil {
		return err
	}
	return u.repo.Delete(ctx, taskID, requesterID)
}
