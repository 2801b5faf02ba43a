package dto

import "time"

type UpdateProfileRequest struct {
	Email          *string `json:"email" validate:"omitempty,email,max=100"`
	ImageURL       *string `json:"imageUrl" validate:"omitempty,url"`
	FirstName      *string `json:"firstName" validate:"omitempty,notblank,max=50"`
	LastName       *string `json:"lastName" validate:"omitempty,notblank,max=50"`
	Gender         *string `json:"gender" validate:"omitempty,max=20"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Address        *string `json:"address"`
	LicenseNumber  *string `json:"licenseNumber" validate:"omitempty,notblank,max=50"`
	Specialization *string `json:"specialization" validate:"omitempty,notblank,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type UpgradeToDoctorRequest struct {
	LicenseNumber  string `json:"licenseNumber" validate:"notblank,max=50"`
	Specialization string `json:"specialization" validate:"notblank,max=100"`
}

type ClientProfileResponse struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type DoctorProfileResponse struct {
	LicenseNumber  string `json:"licenseNumber"`
	Specialization string `json:"specialization"`
}

// UserResponse carries exactly one profile, picked by Role: a
// *ClientProfileResponse for clients, a *DoctorProfileResponse for doctors
// and nil for admins.
type UserResponse struct {
	UserID     string      `json:"userId"`
	Email      string      `json:"email"`
	Role       string      `json:"role"`
	ImageURL   *string     `json:"imageUrl"`
	IsActive   bool        `json:"isActive"`
	IsVerified bool        `json:"isVerified"`
	CreatedAt  time.Time   `json:"createdAt"`
	Profile    interface{} `json:"profile"`
}
