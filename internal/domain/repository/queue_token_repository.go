package repository

import (
	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueTokenRepository interface {
	Create(db *gorm.DB, token *entity.QueueToken) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error)

	// FindActiveByPatientID returns the newest token for the patient with
	// status waiting or called, or nil when none exists.
	FindActiveByPatientID(db *gorm.DB, patientID uuid.UUID) (*entity.QueueToken, error)

	// FindActiveByRef looks up an active token by its (clinic, number) pair.
	FindActiveByRef(db *gorm.DB, ref entity.TokenRef) (*entity.QueueToken, error)

	FindVisibleByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.QueueToken, error)
	FindVisibleByRefs(db *gorm.DB, refs []entity.TokenRef) ([]entity.QueueToken, error)

	// MaxTokenNumber returns the highest token number issued for the clinic,
	// or 0 when the clinic has no tokens.
	MaxTokenNumber(db *gorm.DB, clinicID uuid.UUID) (int, error)

	// CountWaiting returns the live queue depth for a clinic.
	CountWaiting(db *gorm.DB, clinicID uuid.UUID) (int64, error)

	// CountWaitingGrouped returns queue depths for all clinics at once.
	CountWaitingGrouped(db *gorm.DB) (map[uuid.UUID]int64, error)

	// Cancel conditionally cancels a token unless it is already cancelled.
	// Returns affected rows: 1 = cancelled now, 0 = was already cancelled.
	Cancel(db *gorm.DB, id uuid.UUID) (int64, error)
}
