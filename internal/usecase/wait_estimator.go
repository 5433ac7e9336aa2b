package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"findmyclinic/internal/domain/repository"
)

// Wait estimation parameters. Estimates are advisory: a fixed per-patient
// cost clamped to a floor and ceiling, with a safe fallback when the queue
// depth cannot be read. The estimator never reports zero minutes.
const (
	PerPatientMinutes   = 10
	MinWaitMinutes      = 5
	MaxWaitMinutes      = 240
	FallbackWaitMinutes = 30
)

// WaitEstimator derives a wait estimate from live queue depth.
type WaitEstimator struct {
	db        *gorm.DB
	log       *logrus.Logger
	tokenRepo repository.QueueTokenRepository
}

func NewWaitEstimator(db *gorm.DB, log *logrus.Logger, tokenRepo repository.QueueTokenRepository) *WaitEstimator {
	return &WaitEstimator{
		db:        db,
		log:       log,
		tokenRepo: tokenRepo,
	}
}

// Estimate returns the current wait in minutes for a clinic. A failed depth
// read returns the fallback estimate rather than an error; estimation must
// never block a booking.
func (e *WaitEstimator) Estimate(ctx context.Context, clinicID uuid.UUID) int {
	depth, err := e.tokenRepo.CountWaiting(e.db.WithContext(ctx), clinicID)
	if err != nil {
		e.log.Warnf("Failed to count waiting tokens for clinic %s, using fallback estimate: %+v", clinicID, err)
		return FallbackWaitMinutes
	}
	return e.FromDepth(depth)
}

// FromDepth converts a queue depth into minutes, clamped to [MinWaitMinutes, MaxWaitMinutes]
func (e *WaitEstimator) FromDepth(depth int64) int {
	minutes := int(depth) * PerPatientMinutes
	if minutes < MinWaitMinutes {
		minutes = MinWaitMinutes
	}
	if minutes > MaxWaitMinutes {
		minutes = MaxWaitMinutes
	}
	return minutes
}
