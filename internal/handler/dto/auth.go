// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"time"

	"github.com/vinped/vinped/internal/model"
)

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the outward representation of a user.
// The password hash is never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// LogoutResponse is returned by logout; always successful.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the error payload shape.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ValidationErrorResponse carries field-level validation messages.
type ValidationErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details"`
}

// FieldError mirrors service.FieldError for serialization.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ToUserResponse converts a user model to its response shape.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToAuthResponse converts a user and token to the auth response shape.
func ToAuthResponse(user *model.User, token string) AuthResponse {
	return AuthResponse{
		User:  ToUserResponse(user),
		Token: token,
	}
}
