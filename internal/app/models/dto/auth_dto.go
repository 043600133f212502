package dto

import "github.com/yigit/deptportal/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SignupRequest creates an account. New accounts are viewers until an
// existing admin promotes them.
type SignupRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// ForgotPasswordRequest asks for a reset email
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password with a mailed token
type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"43200"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID    string `json:"id" example:"test-admin-uid"`
	Email string `json:"email" example:"admin@example.edu"`
	Name  string `json:"name" example:"Test Admin"`
	Role  string `json:"role" example:"admin"`
}

// NewUserResponse hides credentials.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
