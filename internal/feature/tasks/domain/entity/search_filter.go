package entity

import (
	"time"

	authentity "todo_backend/internal/feature/auth/domain/entity"
)

// SearchFilter is a saved list query. It is persisted for schema completeness; no route reads it.
type SearchFilter struct {
	ID           string    `gorm:"column:filter_id;primaryKey;size:36"`
	UserID       string    `gorm:"index;size:36;not null"`
	SearchQuery  *string   `gorm:"type:text"`
	FilterStatus string    `gorm:"size:16;not null;default:incomplete"`
	CreatedAt    time.Time `gorm:"not null"`

	Owner *authentity.User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

func (SearchFilter) TableName() string {
	return "search_filters"
}
