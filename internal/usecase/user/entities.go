package user

import (
	"time"

	domain "opticash-backend/internal/domain/user"
	"opticash-backend/pkg/token"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileInput changes only the supplied fields. A new password needs the current one.
type UpdateProfileInput struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	CurrentPassword string  `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=8,max=72"`
}

type AdminUpdateInput struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=120"`
	Role   *string `json:"role" validate:"omitempty,oneof=user admin"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Role   string `query:"role" validate:"omitempty,oneof=user admin"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}

type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResult struct {
	User   UserDTO     `json:"user"`
	Tokens *token.Pair `json:"tokens"`
}

type StatsDTO struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Admins   int64 `json:"admins"`
}

func toDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
