package repository

import (
	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)

	// Upsert inserts the patient or updates name/phone/email when the row
	// already exists. Used for authenticated actors whose patient ID is
	// their user ID.
	Upsert(db *gorm.DB, patient *entity.Patient) error
}
