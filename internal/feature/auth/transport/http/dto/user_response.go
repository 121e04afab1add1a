package dto

import (
	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/platform/http/response"
)

// UserResponse is the public part of a user returned by register, login and verify.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ProfileResponse is returned by GET /api/users/:user_id.
type ProfileResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// SessionResponse is the {user, token} body of register and login.
type SessionResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// VerifyResponse wraps the authenticated user.
type VerifyResponse struct {
	User UserResponse `json:"user"`
}

// NewUserResponse copies the public fields of u. The stored credential is never included.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: response.Timestamp(u.CreatedAt),
	}
}

func NewProfileResponse(u *entity.User) ProfileResponse {
	return ProfileResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: response.Timestamp(u.CreatedAt),
	}
}
