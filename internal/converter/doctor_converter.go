package converter

import (
	"github.com/google/uuid"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:               doctor.ID,
		ClinicID:         doctor.ClinicID,
		Name:             doctor.Name,
		Email:            doctor.Email,
		Phone:            doctor.Phone,
		Specialization:   doctor.Specialization,
		ExperienceYears:  doctor.ExperienceYears,
		Rating:           doctor.Rating,
		ConsultationFee:  doctor.ConsultationFee,
		Bio:              doctor.Bio,
		IsAvailableToday: doctor.IsAvailableToday,
		CreatedAt:        doctor.CreatedAt,
	}

	if doctor.Clinic.ID != uuid.Nil {
		response.Clinic = ClinicToResponse(&doctor.Clinic)
	}

	return response
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
