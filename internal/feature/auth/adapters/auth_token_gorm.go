package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/usecase"
)

// authTokenGorm stores issued tokens in the auth_tokens table.
type authTokenGorm struct {
	db *gorm.DB
}

var _ usecase.TokenRepository = (*authTokenGorm)(nil)

// NewAuthTokenGorm creates a new instance of authTokenGorm.
func NewAuthTokenGorm(db *gorm.DB) *authTokenGorm {
	return &authTokenGorm{db: db}
}

// Create persists a token record. Rows are append-only.
func (r *authTokenGorm) Create(ctx context.Context, token *entity.AuthToken) error {
	if token == nil {
		return errors.New("auth token is nil")
	}
	return r.db.WithContext(ctx).Create(token).Error
}
