package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=6"`
	Role          UserRole `json:"role" validate:"omitempty,oneof=student teacher admin"`
	StudentNumber string   `json:"studentId" validate:"required_if=Role student,omitempty,max=50"`
	Phone         string   `json:"phone" validate:"omitempty,phone10"`
	Semester      string   `json:"semester" validate:"omitempty,semester"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UpdateProfileRequest changes the caller's own profile. Empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Phone    string `json:"phone" validate:"omitempty,phone10"`
	Semester string `json:"semester" validate:"omitempty,semester"`
}

// AuthResponse is the single contract returned by register, login and profile updates.
type AuthResponse struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          UserRole `json:"role"`
	StudentNumber string   `json:"studentId,omitempty"`
	Token         string   `json:"token"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
