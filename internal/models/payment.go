// internal/models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoyaltyPayment is an immutable record of a reported royalty payment
// against a license agreement. The registry never moves funds; it records
// that the licensee reported an amount for a billing period, optionally
// carrying a reference into the external settlement system. Payments have
// no update or delete path anywhere in the codebase.
type RoyaltyPayment struct {
	ID                  uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	LicenseID           uint      `json:"license_id" gorm:"not null;index"`
	Amount              int64     `json:"amount" gorm:"not null"`
	Period              string    `json:"period" gorm:"size:100;not null"`
	PaymentDate         time.Time `json:"payment_date" gorm:"not null"`
	RecordedBy          uuid.UUID `json:"recorded_by" gorm:"type:uuid;not null"`
	SettlementReference string    `json:"settlement_reference,omitempty" gorm:"size:255"`
	SettlementVerified  bool      `json:"settlement_verified" gorm:"default:false"`
	CreatedAt           time.Time `json:"created_at"`

	// Relationships
	License LicenseAgreement `json:"license,omitempty" gorm:"foreignKey:LicenseID"`
}
