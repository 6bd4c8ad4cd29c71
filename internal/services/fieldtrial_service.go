// internal/services/fieldtrial_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdanthq/cultivar-backend/internal/database"
	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

// FieldTrialService records field tests of plant varieties. It is a
// companion subsystem to the licensing ledger: licensing references
// varieties only by opaque id, and nothing here ever touches license or
// payment state.
type FieldTrialService struct {
	db      *gorm.DB
	guard   *AuthorizationService
	storage *StorageService
}

type StartTrialRequest struct {
	VarietyID  int64  `json:"variety_id" validate:"gte=0"`
	Location   string `json:"location" validate:"required,max=255"`
	Conditions string `json:"conditions"`
}

type CompleteTrialRequest struct {
	Yield                   int    `json:"yield"`
	QualityScore            int    `json:"quality_score"`
	DiseaseResistance       int    `json:"disease_resistance"`
	EnvironmentalAdaptation int    `json:"environmental_adaptation"`
	Notes                   string `json:"notes"`
}

func NewFieldTrialService(db *gorm.DB, guard *AuthorizationService, storage *StorageService) *FieldTrialService {
	return &FieldTrialService{
		db:      db,
		guard:   guard,
		storage: storage,
	}
}

// StartTrial opens a new trial with the caller as tester.
func (s *FieldTrialService) StartTrial(testerID uuid.UUID, req *StartTrialRequest) (*models.FieldTrial, error) {
	if req.VarietyID < 0 {
		return nil, fmt.Errorf("%w: variety id must not be negative", ErrInvalidArgument)
	}
	if req.Location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidArgument)
	}

	trial := &models.FieldTrial{
		VarietyID:  req.VarietyID,
		TesterID:   testerID,
		Location:   req.Location,
		Conditions: req.Conditions,
		StartDate:  time.Now(),
		Status:     models.TrialStatusInProgress,
	}

	if err := s.db.Create(trial).Error; err != nil {
		return nil, fmt.Errorf("failed to start field trial: %w", err)
	}

	return trial, nil
}

// CompleteTrial closes an in-progress trial and stores its measured
// outcomes. Only the tester who started the trial may complete it, and a
// trial completes at most once.
func (s *FieldTrialService) CompleteTrial(callerID uuid.UUID, trialID uint, req *CompleteTrialRequest) (*models.FieldTrial, error) {
	for name, score := range map[string]int{
		"yield":                    req.Yield,
		"quality_score":            req.QualityScore,
		"disease_resistance":       req.DiseaseResistance,
		"environmental_adaptation": req.EnvironmentalAdaptation,
	} {
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("%w: %s %d outside [0, 100]", ErrInvalidArgument, name, score)
		}
	}

	var trial models.FieldTrial

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&trial, trialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: field trial %d", ErrNotFound, trialID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !s.guard.CanCompleteTrial(callerID, &trial) {
			return fmt.Errorf("%w: only the tester may complete a trial", ErrNotAuthorized)
		}

		if trial.Status != models.TrialStatusInProgress {
			return fmt.Errorf("%w: field trial %d", ErrAlreadyCompleted, trialID)
		}

		now := time.Now()
		trial.Status = models.TrialStatusCompleted
		trial.EndDate = &now

		if err := tx.Save(&trial).Error; err != nil {
			return fmt.Errorf("failed to complete field trial: %w", err)
		}

		result := &models.FieldTrialResult{
			TrialID:                 trialID,
			Yield:                   req.Yield,
			QualityScore:            req.QualityScore,
			DiseaseResistance:       req.DiseaseResistance,
			EnvironmentalAdaptation: req.EnvironmentalAdaptation,
			Notes:                   req.Notes,
		}

		if err := tx.Create(result).Error; err != nil {
			return fmt.Errorf("failed to store trial results: %w", err)
		}

		trial.Result = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &trial, nil
}

func (s *FieldTrialService) GetTrial(trialID uint) (*models.FieldTrial, error) {
	var trial models.FieldTrial
	if err := s.db.Preload("Result").First(&trial, trialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: field trial %d", ErrNotFound, trialID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &trial, nil
}

// GetTrialResults returns the measured outcomes of a completed trial.
// An in-progress trial has no results yet and reads as not found.
func (s *FieldTrialService) GetTrialResults(trialID uint) (*models.FieldTrialResult, error) {
	var result models.FieldTrialResult
	if err := s.db.Where("trial_id = ?", trialID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: results for field trial %d", ErrNotFound, trialID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &result, nil
}

// AttachReport uploads a trial report document and links it to the
// trial. The SHA-256 of the uploaded content is kept in the trial
// metadata so reports can be integrity-checked later.
func (s *FieldTrialService) AttachReport(callerID uuid.UUID, trialID uint, file multipart.File, header *multipart.FileHeader) (*models.FieldTrial, error) {
	var trial models.FieldTrial
	if err := s.db.First(&trial, trialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: field trial %d", ErrNotFound, trialID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !s.guard.CanCompleteTrial(callerID, &trial) {
		return nil, fmt.Errorf("%w: only the tester may attach reports", ErrNotAuthorized)
	}

	if s.storage == nil {
		return nil, fmt.Errorf("report storage is not configured")
	}

	upload, err := s.storage.UploadFile(file, header, s.storage.TrialReportUploadOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to upload trial report: %w", err)
	}

	trial.ReportURLs = append(trial.ReportURLs, upload.URL)
	if trial.Metadata == nil {
		trial.Metadata = make(models.JSONB)
	}
	trial.Metadata["report_sha256_"+upload.Key] = upload.ContentHash

	if err := s.db.Save(&trial).Error; err != nil {
		return nil, fmt.Errorf("failed to link trial report: %w", err)
	}

	return &trial, nil
}

// SearchTrials lists trials for reporting and variety review, newest
// first by default.
func (s *FieldTrialService) SearchTrials(varietyID *int64, status *models.TrialStatus, params utils.PaginationParams) ([]models.FieldTrial, int64, error) {
	query := s.db.Model(&models.FieldTrial{})

	if varietyID != nil {
		query = query.Where("variety_id = ?", *varietyID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count field trials: %w", err)
	}

	allowedSortFields := []string{"id", "created_at", "start_date", "variety_id"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var trials []models.FieldTrial
	if err := query.Preload("Result").Find(&trials).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch field trials: %w", err)
	}

	return trials, total, nil
}
