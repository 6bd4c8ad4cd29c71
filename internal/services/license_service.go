// internal/services/license_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdanthq/cultivar-backend/internal/database"
	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

// LicenseService owns the collection of license agreements: creation,
// lookup with read-time expiry, and the one-way terminate transition.
// All validation runs before any write; a failed operation leaves the
// collection untouched.
type LicenseService struct {
	db    *gorm.DB
	guard *AuthorizationService
}

type CreateLicenseRequest struct {
	VarietyID    int64              `json:"variety_id" validate:"gte=0"`
	LicenseeID   uuid.UUID          `json:"licensee_id" validate:"required"`
	LicenseType  models.LicenseType `json:"license_type" validate:"required"`
	RoyaltyRate  int                `json:"royalty_rate"`
	Territory    string             `json:"territory"`
	DurationDays int                `json:"duration_days" validate:"required"`
}

type LicenseSearchParams struct {
	utils.PaginationParams
	LicensorID *uuid.UUID            `json:"licensor_id,omitempty"`
	LicenseeID *uuid.UUID            `json:"licensee_id,omitempty"`
	VarietyID  *int64                `json:"variety_id,omitempty"`
	Status     *models.LicenseStatus `json:"status,omitempty"`
}

func NewLicenseService(db *gorm.DB, guard *AuthorizationService) *LicenseService {
	return &LicenseService{
		db:    db,
		guard: guard,
	}
}

// CreateLicense registers a new agreement with the caller as licensor.
// Any principal may create licenses; there is no duplicate detection, so
// two identical requests produce two distinct agreements. The variety id
// is an opaque reference into the field-trial subsystem and is only
// checked for non-negativity here.
func (s *LicenseService) CreateLicense(licensorID uuid.UUID, req *CreateLicenseRequest) (*models.LicenseAgreement, error) {
	if req.VarietyID < 0 {
		return nil, fmt.Errorf("%w: variety id must not be negative", ErrInvalidArgument)
	}
	if req.RoyaltyRate < 0 || req.RoyaltyRate > 100 {
		return nil, fmt.Errorf("%w: royalty rate %d outside [0, 100]", ErrInvalidArgument, req.RoyaltyRate)
	}
	if req.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidArgument)
	}
	if req.LicenseType == "" {
		return nil, fmt.Errorf("%w: license type is required", ErrInvalidArgument)
	}

	// The licensee must be a registered principal; account issuance itself
	// is outside the registry.
	var licensee models.User
	if err := s.db.First(&licensee, "id = ?", req.LicenseeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: licensee account does not exist", ErrInvalidArgument)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	license := &models.LicenseAgreement{
		VarietyID:   req.VarietyID,
		LicensorID:  licensorID,
		LicenseeID:  req.LicenseeID,
		LicenseType: req.LicenseType,
		RoyaltyRate: req.RoyaltyRate,
		Territory:   req.Territory,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, req.DurationDays),
		Status:      models.LicenseStatusActive,
	}

	if err := s.db.Create(license).Error; err != nil {
		return nil, fmt.Errorf("failed to create license agreement: %w", err)
	}

	return license, nil
}

// TerminateLicense performs the irreversible active -> terminated
// transition. Only the licensor may terminate; a second terminate on the
// same agreement fails with ErrAlreadyTerminated.
func (s *LicenseService) TerminateLicense(callerID uuid.UUID, licenseID uint) (*models.LicenseAgreement, error) {
	var license models.LicenseAgreement

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&license, licenseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: license %d", ErrNotFound, licenseID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !s.guard.CanTerminateLicense(callerID, &license) {
			return fmt.Errorf("%w: only the licensor may terminate", ErrNotAuthorized)
		}

		if license.Status != models.LicenseStatusActive {
			return fmt.Errorf("%w: license %d", ErrAlreadyTerminated, licenseID)
		}

		now := time.Now()
		license.Status = models.LicenseStatusTerminated
		license.TerminatedAt = &now

		if err := tx.Save(&license).Error; err != nil {
			return fmt.Errorf("failed to terminate license: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &license, nil
}

// GetLicense returns the agreement with its effective status: expiry is
// derived from the end date at read time and never written back.
func (s *LicenseService) GetLicense(licenseID uint) (*models.LicenseAgreement, error) {
	var license models.LicenseAgreement
	if err := s.db.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: license %d", ErrNotFound, licenseID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	license.Status = license.EffectiveStatus(time.Now())
	return &license, nil
}

// SearchLicenses is the read-only enumeration surface for reporting
// layers. Status filters address effective status, so "expired" selects
// stored-active agreements whose end date has passed.
func (s *LicenseService) SearchLicenses(params LicenseSearchParams) ([]models.LicenseAgreement, int64, error) {
	query := s.db.Model(&models.LicenseAgreement{})

	if params.LicensorID != nil {
		query = query.Where("licensor_id = ?", *params.LicensorID)
	}

	if params.LicenseeID != nil {
		query = query.Where("licensee_id = ?", *params.LicenseeID)
	}

	if params.VarietyID != nil {
		query = query.Where("variety_id = ?", *params.VarietyID)
	}

	if params.Status != nil {
		now := time.Now()
		switch *params.Status {
		case models.LicenseStatusExpired:
			query = query.Where("status = ? AND end_date < ?", models.LicenseStatusActive, now)
		case models.LicenseStatusActive:
			query = query.Where("status = ? AND end_date >= ?", models.LicenseStatusActive, now)
		default:
			query = query.Where("status = ?", *params.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count licenses: %w", err)
	}

	allowedSortFields := []string{"id", "created_at", "start_date", "end_date", "royalty_rate"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var licenses []models.LicenseAgreement
	if err := query.Find(&licenses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch licenses: %w", err)
	}

	now := time.Now()
	for i := range licenses {
		licenses[i].Status = licenses[i].EffectiveStatus(now)
	}

	return licenses, total, nil
}
