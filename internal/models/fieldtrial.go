// internal/models/fieldtrial.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FieldTrial records a field test of a plant variety: where it was grown,
// under which conditions, and (once completed) the measured outcomes.
// Trials share the registry's sequential-id convention. The licensing
// side references varieties only by opaque id and never reads or writes
// trial state.
type FieldTrial struct {
	ID         uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	VarietyID  int64          `json:"variety_id" gorm:"not null;index"`
	TesterID   uuid.UUID      `json:"tester_id" gorm:"type:uuid;not null;index"`
	Location   string         `json:"location" gorm:"size:255;not null"`
	Conditions string         `json:"conditions" gorm:"type:text"`
	StartDate  time.Time      `json:"start_date" gorm:"not null"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	Status     TrialStatus    `json:"status" gorm:"type:varchar(20);not null;default:'in_progress';index"`
	ReportURLs pq.StringArray `json:"report_urls,omitempty" gorm:"type:text[]"`
	Metadata   JSONB          `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	// Relationships
	Tester User              `json:"tester,omitempty" gorm:"foreignKey:TesterID"`
	Result *FieldTrialResult `json:"result,omitempty" gorm:"foreignKey:TrialID"`
}

// FieldTrialResult holds the measured outcomes of a completed trial.
// All scores are percentages in [0, 100].
type FieldTrialResult struct {
	ID                      uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TrialID                 uint      `json:"trial_id" gorm:"not null;uniqueIndex"`
	Yield                   int       `json:"yield" gorm:"not null"`
	QualityScore            int       `json:"quality_score" gorm:"not null"`
	DiseaseResistance       int       `json:"disease_resistance" gorm:"not null"`
	EnvironmentalAdaptation int       `json:"environmental_adaptation" gorm:"not null"`
	Notes                   string    `json:"notes" gorm:"type:text"`
	CreatedAt               time.Time `json:"created_at"`
}
