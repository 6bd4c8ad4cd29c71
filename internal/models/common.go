// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model for principal-owned records keyed by UUID. Ledger entities
// (licenses, payments, trials) carry their own sequential integer keys
// and are never soft-deleted.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeBreeder UserType = "breeder"
	UserTypeGrower  UserType = "grower"
	UserTypeAdmin   UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// LicenseType is an open set: the values below are the ones the registry
// launched with, but new types can be introduced without breaking
// existing agreements, so it is stored as plain text.
type LicenseType string

const (
	LicenseTypeExclusive    LicenseType = "exclusive"
	LicenseTypeNonExclusive LicenseType = "non-exclusive"
	LicenseTypeResearch     LicenseType = "research"
)

// LicenseStatus covers both stored states (active, terminated) and the
// read-time derived state (expired). Only active and terminated are ever
// persisted; expired is computed from end_date when the agreement is read.
type LicenseStatus string

const (
	LicenseStatusActive     LicenseStatus = "active"
	LicenseStatusTerminated LicenseStatus = "terminated"
	LicenseStatusExpired    LicenseStatus = "expired"
)

type TrialStatus string

const (
	TrialStatusInProgress TrialStatus = "in_progress"
	TrialStatusCompleted  TrialStatus = "completed"
)
