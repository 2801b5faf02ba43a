package dto

import "time"

type CreateProgramRequest struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Duration    *string `json:"duration" validate:"omitempty,max=50"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	IsActive    *bool   `json:"isActive"`
}

type UpdateProgramRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Duration    *string `json:"duration" validate:"omitempty,max=50"`
	Difficulty  *string `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	IsActive    *bool   `json:"isActive"`
}

type ProgramResponse struct {
	ProgramID   string    `json:"programId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	Duration    *string   `json:"duration"`
	Difficulty  *string   `json:"difficulty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
