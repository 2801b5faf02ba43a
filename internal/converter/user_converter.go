package converter

import (
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The profile is
// taken from the relation that matches the user's current role.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		UserID:     user.UserID,
		Email:      user.Email,
		Role:       user.Role,
		ImageURL:   user.ImageURL,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}

	switch profile := user.ActiveProfile().(type) {
	case *entity.ClientProfile:
		response.Profile = ClientProfileToResponse(profile)
	case *entity.DoctorProfile:
		response.Profile = DoctorProfileToResponse(profile)
	}

	return response
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func ClientProfileToResponse(p *entity.ClientProfile) *dto.ClientProfileResponse {
	return &dto.ClientProfileResponse{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Phone:     p.Phone,
		Address:   p.Address,
	}
}

func DoctorProfileToResponse(p *entity.DoctorProfile) *dto.DoctorProfileResponse {
	return &dto.DoctorProfileResponse{
		LicenseNumber:  p.LicenseNumber,
		Specialization: p.Specialization,
	}
}
