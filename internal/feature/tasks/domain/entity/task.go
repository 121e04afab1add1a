// Package entity defines the domain entities for the tasks feature.
package entity

import (
	"time"

	authentity "todo_backend/internal/feature/auth/domain/entity"
)

// Task is a to-do item owned by exactly one user. The owner never changes after creation.
type Task struct {
	ID         string     `gorm:"column:task_id;primaryKey;size:36"`
	UserID     string     `gorm:"index;size:36;not null"`
	Name       string     `gorm:"column:task_name;type:text;not null"`
	DueDate    *time.Time `gorm:"column:due_date"`
	IsComplete bool       `gorm:"not null"`
	CreatedAt  time.Time  `gorm:"not null"`

	// Owner declares the users(user_id) foreign key and is never loaded.
	Owner *authentity.User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}
