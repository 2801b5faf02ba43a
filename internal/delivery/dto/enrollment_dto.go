package dto

import "time"

type CreateEnrollmentRequest struct {
	// UserID defaults to the caller. Only admins may enroll someone else.
	UserID    string  `json:"userId" validate:"omitempty,max=50"`
	ProgramID string  `json:"programId" validate:"notblank,max=50"`
	Notes     *string `json:"notes"`
}

type UpdateEnrollmentRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Progress *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Notes    *string `json:"notes"`
}

type EnrollmentUserSummary struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

type EnrollmentProgramSummary struct {
	ProgramID   string  `json:"programId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Duration    *string `json:"duration,omitempty"`
}

type EnrollmentResponse struct {
	ID             int64                     `json:"id"`
	UserID         string                    `json:"userId"`
	ProgramID      string                    `json:"programId"`
	EnrolledAt     time.Time                 `json:"enrolledAt"`
	CompletedAt    *time.Time                `json:"completedAt"`
	Status         string                    `json:"status"`
	Progress       int                       `json:"progress"`
	Notes          *string                   `json:"notes"`
	LastAccessedAt *time.Time                `json:"lastAccessedAt"`
	User           *EnrollmentUserSummary    `json:"user,omitempty"`
	Program        *EnrollmentProgramSummary `json:"program,omitempty"`
}
