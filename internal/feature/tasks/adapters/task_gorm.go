// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo_backend/internal/feature/tasks/domain"
	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/usecase"
)

// sortColumns はソート可能な列の許可リストです。値はSQLに直接埋め込まれるため、
// ここに無い列名は使用されません。
var sortColumns = map[string]string{
	"task_name":  "task_name",
	"due_date":   "due_date",
	"created_at": "created_at",
}

const defaultSortColumn = "due_date"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// taskGorm はTaskRepositoryのGORM実装です。
type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm はtaskGormの新しいインスタンスを生成します。
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// Search は所有者条件から始め、指定された条件をプレースホルダで追加します。
func (r *taskGorm) Search(ctx context.Context, f domain.TaskFilter) ([]entity.Task, error) {
	q := r.db.WithContext(ctx).Model(&entity.Task{}).Where("user_id = ?", f.UserID)

	if f.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Query)) + "%"
		q = q.Where(`LOWER(task_name) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.IsComplete != nil {
		q = q.Where("is_complete = ?", *f.IsComplete)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = defaultSortColumn
	}
	desc := f.SortOrder != domain.SortAsc
	if col == "due_date" {
		// 期限なしのタスクはどちらの並び順でも末尾（PostgreSQLとSQLiteで既定が異なるため明示）
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "due_date IS NULL", Raw: true}})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	if col != "created_at" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: desc})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "task_id"}, Desc: desc})

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	tasks := make([]entity.Task, 0)
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create はタスクを追加します。
func (r *taskGorm) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID はIDでタスクを取得します。
func (r *taskGorm) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	var t entity.Task
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update は (task_id, user_id) に一致する行のうち、changes で指定された列だけを更新します。
func (r *taskGorm) Update(ctx context.Context, id, ownerID string, changes domain.TaskChanges) (*entity.Task, error) {
	if changes.Empty() {
		return nil, domain.ErrNoUpdateFields
	}

	// mapを使うことでfalseやNULLといったゼロ値も書き込まれる
	values := map[string]any{}
	if changes.Name != nil {
		values["task_name"] = *changes.Name
	}
	if changes.SetDueDate {
		if changes.DueDate != nil {
			values["due_date"] = *changes.DueDate
		} else {
			values["due_date"] = nil
		}
	}
	if changes.IsComplete != nil {
		values["is_complete"] = *changes.IsComplete
	}

	res := r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("task_id = ? AND user_id = ?", id, ownerID).
		Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete は (task_id, user_id) に一致する行を削除します。
func (r *taskGorm) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", id, ownerID).
		Delete(&entity.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
