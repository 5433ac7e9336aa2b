package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus represents the lifecycle state of a queue token
type TokenStatus string

const (
	TokenStatusWaiting   TokenStatus = "waiting"
	TokenStatusCalled    TokenStatus = "called"
	TokenStatusCompleted TokenStatus = "completed"
	TokenStatusCancelled TokenStatus = "cancelled"
)

// QueueToken represents a clinic-scoped waiting-line ticket.
// Token numbers are clinic-scoped, monotonically increasing and never reused.
type QueueToken struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	TokenNumber       int         `gorm:"not null;index" json:"token_number"`
	Status            TokenStatus `gorm:"type:token_status;not null;default:'waiting';index" json:"status"`
	EstimatedWaitTime int         `gorm:"not null" json:"estimated_wait_time"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Clinic  Clinic  `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (QueueToken) TableName() string {
	return "queue_tokens"
}

// IsActive reports whether the token still occupies a place in the queue
func (t *QueueToken) IsActive() bool {
	return t.Status == TokenStatusWaiting || t.Status == TokenStatusCalled
}

// IsCancelled checks if the token has been cancelled
func (t *QueueToken) IsCancelled() bool {
	return t.Status == TokenStatusCancelled
}

// IsTerminal reports whether the token can no longer transition
func (t *QueueToken) IsTerminal() bool {
	return t.Status == TokenStatusCompleted || t.Status == TokenStatusCancelled
}

// ActiveTokenStatuses are the statuses the conflict checker considers in-flight
func ActiveTokenStatuses() []TokenStatus {
	return []TokenStatus{TokenStatusWaiting, TokenStatusCalled}
}

// VisibleTokenStatuses are the statuses shown on the patient dashboard
func VisibleTokenStatuses() []TokenStatus {
	return []TokenStatus{TokenStatusWaiting, TokenStatusCalled, TokenStatusCompleted}
}
