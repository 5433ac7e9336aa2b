package repository

import (
	"findmyclinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
}

type UserProfileRepository interface {
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error)
	Upsert(db *gorm.DB, profile *entity.UserProfile) error
}

type RoleRepository interface {
	FindByID(db *gorm.DB, id int) (*entity.Role, error)
}
