package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/repository"
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, search, specialization string) (*dto.DoctorListResponse, error)
	ListSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error)
}

type doctorUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
}

func NewDoctorUsecase(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorRepository) DoctorUsecase {
	return &doctorUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, search, specialization string) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindActive(u.db.WithContext(ctx), search, specialization)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) ListSpecializations(ctx context.Context) (*dto.SpecializationListResponse, error) {
	specializations, err := u.doctorRepo.Specializations(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list specializations: %+v", err)
		return nil, err
	}

	return &dto.SpecializationListResponse{Specializations: specializations}, nil
}
