package repository

import (
	"errors"

	"findmyclinic/internal/domain/entity"
	domainRepo "findmyclinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindActive(db *gorm.DB, search string) ([]entity.Clinic, error) {
	query := db.Where("is_active = ?", true)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR address ILIKE ?", pattern, pattern)
	}

	var clinics []entity.Clinic
	err := query.Order("name").Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}
