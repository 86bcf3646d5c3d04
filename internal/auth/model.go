package auth

import (
	"github.com/samuelcg20/Apt/internal/domain"
)

type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role" validate:"required,oneof=STUDENT COMPANY"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message      string              `json:"message"`
	User         *domain.UserSummary `json:"user"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
}

// MeUser is the caller with their student profile, null for companies
type MeUser struct {
	domain.UserSummary
	StudentProfile *domain.StudentProfile `json:"studentProfile"`
}

type MeResponse struct {
	User MeUser `json:"user"`
}

func publicUser(u *domain.User) *domain.UserSummary {
	s := u.Summary()
	createdAt := u.CreatedAt
	s.CreatedAt = &createdAt
	return s
}
