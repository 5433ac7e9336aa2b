package converter

import (
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO.
// QueueSize and CurrentWaitMinutes are derived fields; callers that have
// live queue depth fill them in after conversion.
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:        clinic.ID,
		Name:      clinic.Name,
		NameHi:    clinic.NameHi,
		NameMr:    clinic.NameMr,
		Address:   clinic.Address,
		AddressHi: clinic.AddressHi,
		AddressMr: clinic.AddressMr,
		Phone:     clinic.Phone,
		Email:     clinic.Email,
		Latitude:  clinic.Latitude,
		Longitude: clinic.Longitude,
		Status:    string(clinic.Status),
		CreatedAt: clinic.CreatedAt,
	}
}

// ClinicsToResponses converts a slice of Clinic entities to ClinicResponse DTOs
func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i, clinic := range clinics {
		resp := ClinicToResponse(&clinic)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
