package repository

import (
	"findmyclinic/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, action string, limit, offset int) ([]entity.AuditLog, error)
	Count(db *gorm.DB, action string) (int64, error)
}
