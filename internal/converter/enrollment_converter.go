package converter

import (
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
)

// EnrollmentToResponse includes user and program summaries when the
// relations are loaded.
func EnrollmentToResponse(e *entity.Enrollment) *dto.EnrollmentResponse {
	if e == nil {
		return nil
	}

	response := &dto.EnrollmentResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		ProgramID:      e.ProgramID,
		EnrolledAt:     e.EnrolledAt,
		CompletedAt:    e.CompletedAt,
		Status:         e.Status,
		Progress:       e.Progress,
		Notes:          e.Notes,
		LastAccessedAt: e.LastAccessedAt,
		User:           userSummary(e.User),
	}

	if e.Program != nil {
		response.Program = &dto.EnrollmentProgramSummary{
			ProgramID:   e.Program.ProgramID,
			Name:        e.Program.Name,
			Description: e.Program.Description,
			ImageURL:    e.Program.ImageURL,
			Duration:    e.Program.Duration,
		}
	}

	return response
}

func EnrollmentsToResponses(enrollments []entity.Enrollment) []dto.EnrollmentResponse {
	responses := make([]dto.EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		responses[i] = *EnrollmentToResponse(&enrollments[i])
	}
	return responses
}

func userSummary(u *entity.User) *dto.EnrollmentUserSummary {
	if u == nil {
		return nil
	}
	return &dto.EnrollmentUserSummary{
		UserID: u.UserID,
		Email:  u.Email,
		Role:   u.Role,
	}
}
