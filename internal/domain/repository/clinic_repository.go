package repository

import (
	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error)

	// FindActive lists active clinics, optionally filtered by a free-text
	// match on name or address, ordered by name.
	FindActive(db *gorm.DB, search string) ([]entity.Clinic, error)
}
