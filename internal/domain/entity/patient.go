package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel values used when booking without profile data
const (
	AnonymousPatientName = "Anonymous Patient"
	PlaceholderPhone     = "0000000000"
)

// Patient represents a person holding queue tokens. Authenticated patients
// reuse their user ID as the patient ID; anonymous bookings insert a fresh
// placeholder row per booking.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	QueueTokens []QueueToken `gorm:"foreignKey:PatientID" json:"queue_tokens,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// IsPlaceholder reports whether the record was created without profile data
func (p *Patient) IsPlaceholder() bool {
	return p.Name == AnonymousPatientName && p.Phone == PlaceholderPhone
}
