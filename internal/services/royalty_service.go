// internal/services/royalty_service.go
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

// RoyaltyService owns the append-only collection of royalty payment
// records. Payments bind to exactly one license agreement; there is no
// update or delete path, and the service never aggregates totals -- that
// is left to external reporting over the ordered listing.
type RoyaltyService struct {
	db         *gorm.DB
	guard      *AuthorizationService
	settlement *SettlementService
}

type RecordPaymentRequest struct {
	Amount              int64  `json:"amount" validate:"required"`
	Period              string `json:"period" validate:"required,max=100"`
	SettlementReference string `json:"settlement_reference,omitempty"`
}

func NewRoyaltyService(db *gorm.DB, guard *AuthorizationService, settlement *SettlementService) *RoyaltyService {
	return &RoyaltyService{
		db:         db,
		guard:      guard,
		settlement: settlement,
	}
}

// RecordPayment appends an immutable payment record against an active
// license. The payment date is system-assigned; the period label is
// caller-supplied and uninterpreted. The license must exist, be
// effectively active (neither terminated nor expired), and the caller
// must be its licensee. No partial state survives a failed precondition.
func (s *RoyaltyService) RecordPayment(callerID uuid.UUID, licenseID uint, req *RecordPaymentRequest) (*models.RoyaltyPayment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	// Settlement verification talks to the external ledger-of-value and
	// runs before the transaction opens. The registry records the outcome;
	// it never moves funds.
	settlementVerified := false
	if req.SettlementReference != "" && s.settlement != nil && s.settlement.Enabled() {
		verified, err := s.settlement.VerifyReference(req.SettlementReference)
		if err != nil {
			return nil, fmt.Errorf("%w: settlement reference could not be verified", ErrInvalidArgument)
		}
		settlementVerified = verified
	}

	var payment *models.RoyaltyPayment

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var license models.LicenseAgreement
		if err := tx.First(&license, licenseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: license %d", ErrNotFound, licenseID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		now := time.Now()
		if license.EffectiveStatus(now) != models.LicenseStatusActive {
			return fmt.Errorf("%w: license %d", ErrLicenseInactive, licenseID)
		}

		if !s.guard.CanRecordPayment(callerID, &license) {
			return fmt.Errorf("%w: only the licensee may record payments", ErrNotAuthorized)
		}

		payment = &models.RoyaltyPayment{
			LicenseID:           licenseID,
			Amount:              req.Amount,
			Period:              req.Period,
			PaymentDate:         now,
			RecordedBy:          callerID,
			SettlementReference: req.SettlementReference,
			SettlementVerified:  settlementVerified,
		}

		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *RoyaltyService) GetPayment(paymentID uint) (*models.RoyaltyPayment, error) {
	var payment models.RoyaltyPayment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &payment, nil
}

// ListPaymentsForLicense returns the payment records of one agreement in
// creation (id) order, the order external reporting relies on for
// royalty-total reconciliation.
func (s *RoyaltyService) ListPaymentsForLicense(licenseID uint, params utils.PaginationParams) ([]models.RoyaltyPayment, int64, error) {
	var license models.LicenseAgreement
	if err := s.db.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("%w: license %d", ErrNotFound, licenseID)
		}
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query := s.db.Model(&models.RoyaltyPayment{}).Where("license_id = ?", licenseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query = query.Order("id asc")
	query = utils.ApplyPagination(query, params)

	var payments []models.RoyaltyPayment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return payments, total, nil
}
