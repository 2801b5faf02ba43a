package dto

import "time"

// Request DTOs

type RegisterRequest struct {
	FirstName string  `json:"firstName" validate:"notblank,max=50"`
	LastName  string  `json:"lastName" validate:"notblank,max=50"`
	Email     string  `json:"email" validate:"required,email,max=100"`
	Password  string  `json:"password" validate:"required,min=6"`
	Gender    string  `json:"gender" validate:"notblank,max=20"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Response DTOs

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type VerifyResponse struct {
	AlreadyVerified bool `json:"alreadyVerified"`
}

// EmailDispatchResponse reports the transport status of a transactional
// email.
type EmailDispatchResponse struct {
	EmailStatus string `json:"emailStatus"`
}
