package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SearchClinicsRequest struct {
	Search string `json:"search" validate:"omitempty,max=255"`
}

// Response DTOs

type ClinicResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	NameHi             string    `json:"name_hi,omitempty"`
	NameMr             string    `json:"name_mr,omitempty"`
	Address            string    `json:"address"`
	AddressHi          string    `json:"address_hi,omitempty"`
	AddressMr          string    `json:"address_mr,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Status             string    `json:"status"`
	QueueSize          int       `json:"queue_size"`
	CurrentWaitMinutes int       `json:"current_wait_minutes"`
	CreatedAt          time.Time `json:"created_at"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int              `json:"total"`
}
