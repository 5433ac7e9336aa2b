package converter

import (
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Profile != nil {
		response.Profile = ProfileToResponse(user.Profile)
	}

	return response
}

// ProfileToResponse converts a UserProfile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.UserProfile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.ProfileResponse{
		Phone:            profile.Phone,
		Gender:           profile.Gender,
		BloodType:        profile.BloodType,
		Allergies:        profile.Allergies,
		EmergencyContact: profile.EmergencyContact,
		EmergencyPhone:   profile.EmergencyPhone,
	}

	if profile.DateOfBirth != nil {
		response.DateOfBirth = profile.DateOfBirth.Format("2006-01-02")
	}

	return response
}
