package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds patient-supplied profile data. The booking flow reads
// it to backfill the patient record for authenticated actors.
type UserProfile struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Phone            string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender           string    `gorm:"type:char(1)" json:"gender,omitempty"`
	BloodType        string    `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	Allergies        string    `gorm:"type:text" json:"allergies,omitempty"`
	EmergencyContact string    `gorm:"type:varchar(255)" json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `gorm:"type:varchar(20)" json:"emergency_phone,omitempty"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
