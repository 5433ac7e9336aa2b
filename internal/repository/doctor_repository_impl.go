package repository

import (
	"errors"

	"findmyclinic/internal/domain/entity"
	domainRepo "findmyclinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Clinic").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindActive(db *gorm.DB, search, specialization string) ([]entity.Doctor, error) {
	query := db.Preload("Clinic").Where("doctors.is_active = ?", true)
	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR specialization ILIKE ?", pattern, pattern)
	}

	var doctors []entity.Doctor
	err := query.Order("name").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Specializations(db *gorm.DB) ([]string, error) {
	var specs []string
	err := db.Model(&entity.Doctor{}).
		Distinct("specialization").
		Where("is_active = ?", true).
		Order("specialization").
		Pluck("specialization", &specs).Error
	if err != nil {
		return nil, err
	}
	return specs, nil
}
