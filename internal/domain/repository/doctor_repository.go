package repository

import (
	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)

	// FindActive lists active doctors, optionally filtered by specialization
	// and a free-text match on name or specialization, ordered by name.
	FindActive(db *gorm.DB, search, specialization string) ([]entity.Doctor, error)

	// Specializations returns the distinct specializations of active doctors.
	Specializations(db *gorm.DB) ([]string, error)
}
