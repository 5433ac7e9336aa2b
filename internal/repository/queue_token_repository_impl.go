package repository

import (
	"errors"

	"findmyclinic/internal/domain/entity"
	domainRepo "findmyclinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type queueTokenRepository struct{}

func NewQueueTokenRepository() domainRepo.QueueTokenRepository {
	return &queueTokenRepository{}
}

func (r *queueTokenRepository) Create(db *gorm.DB, token *entity.QueueToken) error {
	return db.Create(token).Error
}

func (r *queueTokenRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Preload("Clinic").Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindActiveByPatientID(db *gorm.DB, patientID uuid.UUID) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Preload("Clinic").
		Where("patient_id = ? AND status IN ?", patientID, entity.ActiveTokenStatuses()).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindActiveByRef(db *gorm.DB, ref entity.TokenRef) (*entity.QueueToken, error) {
	var token entity.QueueToken
	err := db.Preload("Clinic").
		Where("clinic_id = ? AND token_number = ? AND status IN ?", ref.ClinicID, ref.TokenNumber, entity.ActiveTokenStatuses()).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *queueTokenRepository) FindVisibleByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.QueueToken, error) {
	var tokens []entity.QueueToken
	err := db.Preload("Clinic").
		Where("patient_id = ? AND status IN ?", patientID, entity.VisibleTokenStatuses()).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *queueTokenRepository) FindVisibleByRefs(db *gorm.DB, refs []entity.TokenRef) ([]entity.QueueToken, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	// OR-combine the (clinic, number) pairs the device presented
	cond := db.Session(&gorm.Session{NewDB: true})
	for _, ref := range refs {
		cond = cond.Or(db.Session(&gorm.Session{NewDB: true}).
			Where("clinic_id = ? AND token_number = ?", ref.ClinicID, ref.TokenNumber))
	}

	var tokens []entity.QueueToken
	err := db.Preload("Clinic").
		Where("status IN ?", entity.VisibleTokenStatuses()).
		Where(cond).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *queueTokenRepository) MaxTokenNumber(db *gorm.DB, clinicID uuid.UUID) (int, error) {
	var max int
	err := db.Model(&entity.QueueToken{}).
		Select("COALESCE(MAX(token_number), 0)").
		Where("clinic_id = ?", clinicID).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *queueTokenRepository) CountWaiting(db *gorm.DB, clinicID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.QueueToken{}).
		Where("clinic_id = ? AND status = ?", clinicID, entity.TokenStatusWaiting).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *queueTokenRepository) CountWaitingGrouped(db *gorm.DB) (map[uuid.UUID]int64, error) {
	type row struct {
		ClinicID uuid.UUID
		Depth    int64
	}
	var rows []row
	err := db.Model(&entity.QueueToken{}).
		Select("clinic_id, COUNT(*) as depth").
		Where("status = ?", entity.TokenStatusWaiting).
		Group("clinic_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	depths := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		depths[r.ClinicID] = r.Depth
	}
	return depths, nil
}

// Cancel atomically cancels a token ONLY while it is still active.
// Returns affected rows: 1 = cancelled now, 0 = token was already terminal
// (keeps a double-cancel idempotent and never revives a completed token).
func (r *queueTokenRepository) Cancel(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.QueueToken{}).
		Where("id = ? AND status IN ?", id, entity.ActiveTokenStatuses()).
		Update("status", entity.TokenStatusCancelled)
	return result.RowsAffected, result.Error
}
