// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo_backend/internal/feature/auth/domain"
	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/schema"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は正規化済みメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// TokenRepository は発行済みトークンの記録を永続化します。
type TokenRepository interface {
	Create(ctx context.Context, token *entity.AuthToken) error
}

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は {user_id, email} を埋め込んだ署名済みトークンを生成します。
	GenerateToken(userID, email string) (string, error)
}

// Session is the result of a successful registration or login.
type Session struct {
	User  *entity.User
	Token string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users     UserRepository
	tokens    TokenRepository
	generator TokenGenerator

	newID func() string
	now   func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenRepository, generator TokenGenerator) *authUsecase {
	return &authUsecase{
		users:     users,
		tokens:    tokens,
		generator: generator,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Register は新規ユーザーを登録し、トークンを発行します。
// パスワードはハッシュ化せずそのまま保存されます（既知の弱点）。
func (u *authUsecase) Register(ctx context.Context, in schema.CreateUserInput) (*Session, error) {
	email := schema.NormalizeEmail(in.Email)

	// 同じメールアドレスのユーザーが既に存在するか確認
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &entity.User{
		ID:           u.newID(),
		Email:        email,
		PasswordHash: in.Password,
		Name:         in.Name,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u.issue(ctx, user)
}

// Login はユーザーを認証し、成功時に新しいトークンを返します。
// ユーザー不在とパスワード不一致は同じ domain.ErrInvalidCredentials になります。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, schema.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(user.PasswordHash)) != 1 {
		return nil, domain.ErrInvalidCredentials
	}

	return u.issue(ctx, user)
}

// Profile returns userID's record, which only its owner may read.
func (u *authUsecase) Profile(ctx context.Context, requesterID, userID string) (*entity.User, error) {
	if requesterID != userID {
		return nil, domain.ErrAccessDenied
	}
	return u.users.FindByID(ctx, userID)
}

// issue signs a token for user and records it.
func (u *authUsecase) issue(ctx context.Context, user *entity.User) (*Session, error) {
	token, err := u.generator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	record := schema.CreateAuthTokenInput{UserID: user.ID, AuthToken: token}
	if err := schema.Validate(&record); err != nil {
		return nil, fmt.Errorf("invalid auth token record: %w", err)
	}
	if err := u.tokens.Create(ctx, &entity.AuthToken{
		ID:        u.newID(),
		UserID:    record.UserID,
		Token:     record.AuthToken,
		CreatedAt: u.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}
