// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// LicenseAgreement records the grant of usage rights over a plant variety
// from a licensor to a licensee. Agreements are identified by a gapless
// sequential integer starting at 1 and are never deleted; the only stored
// mutation is the one-way active -> terminated transition.
type LicenseAgreement struct {
	ID           uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	VarietyID    int64         `json:"variety_id" gorm:"not null;index"`
	LicensorID   uuid.UUID     `json:"licensor_id" gorm:"type:uuid;not null;index"`
	LicenseeID   uuid.UUID     `json:"licensee_id" gorm:"type:uuid;not null;index"`
	LicenseType  LicenseType   `json:"license_type" gorm:"type:varchar(30);not null"`
	RoyaltyRate  int           `json:"royalty_rate" gorm:"not null"`
	Territory    string        `json:"territory" gorm:"size:255"`
	StartDate    time.Time     `json:"start_date" gorm:"not null"`
	EndDate      time.Time     `json:"end_date" gorm:"not null"`
	Status       LicenseStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	TerminatedAt *time.Time    `json:"terminated_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Relationships
	Licensor User             `json:"licensor,omitempty" gorm:"foreignKey:LicensorID"`
	Licensee User             `json:"licensee,omitempty" gorm:"foreignKey:LicenseeID"`
	Payments []RoyaltyPayment `json:"payments,omitempty" gorm:"foreignKey:LicenseID"`
}

// EffectiveStatus applies read-time expiry: a stored-active agreement
// whose end date has passed surfaces as expired without the row being
// touched. Terminated always wins over expiry.
func (l *LicenseAgreement) EffectiveStatus(now time.Time) LicenseStatus {
	if l.Status == LicenseStatusActive && now.After(l.EndDate) {
		return LicenseStatusExpired
	}
	return l.Status
}
