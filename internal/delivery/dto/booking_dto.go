package dto

import (
	"time"

	"github.com/google/uuid"
)

// Conflict resolutions a client may request when it already holds an
// active token.
const (
	ResolutionCancelPrevious = "cancel_previous"
	ResolutionKeepPrevious   = "keep_previous"
)

// Request DTOs

// TokenRefRequest is a device-held reference to a previously issued token.
// Anonymous clients send the refs they persisted locally so the server can
// detect conflicts and list their tokens.
type TokenRefRequest struct {
	ClinicID    uuid.UUID `json:"clinic_id" validate:"required"`
	TokenNumber int       `json:"token_number" validate:"required,min=1"`
}

type CreateTokenRequest struct {
	ClinicID     uuid.UUID         `json:"clinic_id" validate:"required"`
	DoctorID     *uuid.UUID        `json:"doctor_id,omitempty"`
	PatientName  string            `json:"patient_name" validate:"omitempty,max=255"`
	PatientPhone string            `json:"patient_phone" validate:"omitempty,max=20"`
	PatientEmail *string           `json:"patient_email,omitempty" validate:"omitempty,email"`
	TokenRefs    []TokenRefRequest `json:"token_refs" validate:"omitempty,max=20,dive"`
	Resolution   string            `json:"resolution" validate:"omitempty,oneof=cancel_previous keep_previous"`
	RequestKey   string            `json:"request_key" validate:"omitempty,max=64"`
}

type CancelTokenRequest struct {
	TokenRefs []TokenRefRequest `json:"token_refs" validate:"omitempty,max=20,dive"`
}

// Response DTOs

type QueueTokenResponse struct {
	ID                uuid.UUID       `json:"id"`
	ClinicID          uuid.UUID       `json:"clinic_id"`
	DoctorID          *uuid.UUID      `json:"doctor_id,omitempty"`
	TokenNumber       int             `json:"token_number"`
	Status            string          `json:"status"`
	EstimatedWaitTime int             `json:"estimated_wait_time"`
	Clinic            *ClinicResponse `json:"clinic,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ConflictResponse is returned when an active token already exists and the
// request carried no resolution.
type ConflictResponse struct {
	ExistingToken QueueTokenResponse `json:"existing_token"`
	Resolutions   []string           `json:"resolutions"`
}

type CreateTokenResponse struct {
	Token    *QueueTokenResponse `json:"token,omitempty"`
	Conflict *ConflictResponse   `json:"conflict,omitempty"`
}
