// internal/services/authorization_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/verdanthq/cultivar-backend/internal/models"
)

// AuthorizationService is the guard for the licensing ledger: a pure
// predicate layer answering whether a principal may perform an action on
// an entity. It reads only the ownership fields of the entity handed to
// it, holds no state, and has no side effects on failure. The rule set is
// closed and strictly relationship-based; there is no admin override on
// ledger operations.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// CanTerminateLicense: only the licensor who created the agreement may
// terminate it.
func (s *AuthorizationService) CanTerminateLicense(principalID uuid.UUID, license *models.LicenseAgreement) bool {
	return license.LicensorID == principalID
}

// CanRecordPayment: only the licensee named on the agreement may record
// royalty payments against it.
func (s *AuthorizationService) CanRecordPayment(principalID uuid.UUID, license *models.LicenseAgreement) bool {
	return license.LicenseeID == principalID
}

// CanCompleteTrial: only the tester who started a field trial may
// complete it or attach reports.
func (s *AuthorizationService) CanCompleteTrial(principalID uuid.UUID, trial *models.FieldTrial) bool {
	return trial.TesterID == principalID
}

// Reads are public: any authenticated principal may look up licenses,
// payments, and trials. Create is open to any principal, who becomes the
// licensor (or tester) of the new record. Neither needs a predicate here;
// the absence of a check is the rule.
