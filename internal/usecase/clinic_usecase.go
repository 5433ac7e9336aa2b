package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/repository"
)

type ClinicUsecase interface {
	// ListClinics returns active clinics with live queue size and current
	// wait attached, optionally filtered by a name/address search term.
	ListClinics(ctx context.Context, search string) (*dto.ClinicListResponse, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error)
}

type clinicUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	clinicRepo repository.ClinicRepository
	tokenRepo  repository.QueueTokenRepository
	estimator  *WaitEstimator
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	tokenRepo repository.QueueTokenRepository,
	estimator *WaitEstimator,
) ClinicUsecase {
	return &clinicUsecase{
		db:         db,
		log:        log,
		clinicRepo: clinicRepo,
		tokenRepo:  tokenRepo,
		estimator:  estimator,
	}
}

func (u *clinicUsecase) ListClinics(ctx context.Context, search string) (*dto.ClinicListResponse, error) {
	clinics, err := u.clinicRepo.FindActive(u.db.WithContext(ctx), search)
	if err != nil {
		u.log.Warnf("Failed to list clinics: %+v", err)
		return nil, err
	}

	// Queue depths are decoration on the directory; a failed read leaves
	// them at zero-depth estimates rather than failing the listing.
	depths, err := u.tokenRepo.CountWaitingGrouped(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load queue depths for clinic list: %+v", err)
		depths = map[uuid.UUID]int64{}
	}

	responses := converter.ClinicsToResponses(clinics)
	for i := range responses {
		depth := depths[responses[i].ID]
		responses[i].QueueSize = int(depth)
		responses[i].CurrentWaitMinutes = u.estimator.FromDepth(depth)
	}

	return &dto.ClinicListResponse{
		Clinics: responses,
		Total:   len(responses),
	}, nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error) {
	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find clinic %s: %+v", id, err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	response := converter.ClinicToResponse(clinic)

	depth, err := u.tokenRepo.CountWaiting(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to count waiting tokens for clinic %s: %+v", id, err)
		response.CurrentWaitMinutes = FallbackWaitMinutes
		return response, nil
	}
	response.QueueSize = int(depth)
	response.CurrentWaitMinutes = u.estimator.FromDepth(depth)
	return response, nil
}
