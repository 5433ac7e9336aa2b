package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicStatus represents the operational state shown to patients
type ClinicStatus string

const (
	ClinicStatusOpen   ClinicStatus = "open"
	ClinicStatusBusy   ClinicStatus = "busy"
	ClinicStatusClosed ClinicStatus = "closed"
)

// Clinic represents a registered clinic with localized display variants.
// QueueSize and CurrentWaitTime are derived from live token depth, not stored.
type Clinic struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null;index" json:"name"`
	NameHi    string       `gorm:"type:varchar(255)" json:"name_hi,omitempty"`
	NameMr    string       `gorm:"type:varchar(255)" json:"name_mr,omitempty"`
	Address   string       `gorm:"type:text;not null" json:"address"`
	AddressHi string       `gorm:"type:text" json:"address_hi,omitempty"`
	AddressMr string       `gorm:"type:text" json:"address_mr,omitempty"`
	Phone     string       `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email     string       `gorm:"type:varchar(255)" json:"email,omitempty"`
	Latitude  float64      `gorm:"type:double precision" json:"latitude"`
	Longitude float64      `gorm:"type:double precision" json:"longitude"`
	Status    ClinicStatus `gorm:"type:clinic_status;not null;default:'open'" json:"status"`
	IsActive  *bool        `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctors     []Doctor     `gorm:"foreignKey:ClinicID" json:"doctors,omitempty"`
	QueueTokens []QueueToken `gorm:"foreignKey:ClinicID" json:"queue_tokens,omitempty"`
}

func (Clinic) TableName() string {
	return "clinics"
}

// IsOpen reports whether the clinic is accepting queue joins
func (c *Clinic) IsOpen() bool {
	return c.Status != ClinicStatusClosed
}
