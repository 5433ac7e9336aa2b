package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
	"findmyclinic/internal/domain/repository"
)

type QueueStatusUsecase interface {
	// GetStatus returns the actor's visible tokens (waiting, called,
	// completed), newest first, with clinic details attached.
	GetStatus(ctx context.Context, actor entity.Actor) (*dto.QueueStatusResponse, error)
}

type queueStatusUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	tokenRepo repository.QueueTokenRepository
}

func NewQueueStatusUsecase(db *gorm.DB, log *logrus.Logger, tokenRepo repository.QueueTokenRepository) QueueStatusUsecase {
	return &queueStatusUsecase{
		db:        db,
		log:       log,
		tokenRepo: tokenRepo,
	}
}

func (u *queueStatusUsecase) GetStatus(ctx context.Context, actor entity.Actor) (*dto.QueueStatusResponse, error) {
	var (
		tokens []entity.QueueToken
		err    error
	)

	if actor.IsAuthenticated() {
		tokens, err = u.tokenRepo.FindVisibleByPatientID(u.db.WithContext(ctx), *actor.UserID)
	} else {
		if len(actor.TokenRefs) == 0 {
			return &dto.QueueStatusResponse{Tokens: []dto.QueueTokenResponse{}}, nil
		}
		tokens, err = u.tokenRepo.FindVisibleByRefs(u.db.WithContext(ctx), actor.TokenRefs)
	}
	if err != nil {
		u.log.Warnf("Failed to load queue status: %+v", err)
		return nil, err
	}

	return &dto.QueueStatusResponse{
		Tokens: converter.QueueTokensToResponses(tokens),
		Total:  len(tokens),
	}, nil
}
