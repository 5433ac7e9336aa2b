package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SearchDoctorsRequest struct {
	Search         string `json:"search" validate:"omitempty,max=255"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
}

// Response DTOs

type DoctorResponse struct {
	ID               uuid.UUID       `json:"id"`
	ClinicID         uuid.UUID       `json:"clinic_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Specialization   string          `json:"specialization"`
	ExperienceYears  int             `json:"experience_years"`
	Rating           float64         `json:"rating"`
	ConsultationFee  decimal.Decimal `json:"consultation_fee"`
	Bio              string          `json:"bio,omitempty"`
	IsAvailableToday bool            `json:"is_available_today"`
	Clinic           *ClinicResponse `json:"clinic,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type SpecializationListResponse struct {
	Specializations []string `json:"specializations"`
}
