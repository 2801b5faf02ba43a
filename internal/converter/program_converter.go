package converter

import (
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
)

func ProgramToResponse(p *entity.HealthProgram) *dto.ProgramResponse {
	if p == nil {
		return nil
	}

	return &dto.ProgramResponse{
		ProgramID:   p.ProgramID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Duration:    p.Duration,
		Difficulty:  p.Difficulty,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProgramsToResponses(programs []entity.HealthProgram) []dto.ProgramResponse {
	responses := make([]dto.ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = *ProgramToResponse(&programs[i])
	}
	return responses
}
