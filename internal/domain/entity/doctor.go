package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor represents a doctor listed under a clinic. Used for display and
// optional association on a booking; the persisted token schema does not
// reference doctors directly.
type Doctor struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Name              string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Email             string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone             string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Specialization    string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	ExperienceYears   int             `gorm:"not null;default:0" json:"experience_years"`
	Rating            float64         `gorm:"type:numeric(2,1);default:0" json:"rating"`
	ConsultationFee   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	Bio               string          `gorm:"type:text" json:"bio,omitempty"`
	IsActive          *bool           `gorm:"not null;default:true;index" json:"is_active"`
	IsAvailableToday  bool            `gorm:"not null;default:true" json:"is_available_today"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Clinic Clinic `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
