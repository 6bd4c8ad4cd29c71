// internal/services/authorization_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/verdanthq/cultivar-backend/internal/models"
)

func TestAuthorizationRules(t *testing.T) {
	guard := NewAuthorizationService()

	licensor := uuid.New()
	licensee := uuid.New()
	stranger := uuid.New()

	license := &models.LicenseAgreement{
		LicensorID: licensor,
		LicenseeID: licensee,
	}

	assert.True(t, guard.CanTerminateLicense(licensor, license))
	assert.False(t, guard.CanTerminateLicense(licensee, license))
	assert.False(t, guard.CanTerminateLicense(stranger, license))

	assert.True(t, guard.CanRecordPayment(licensee, license))
	assert.False(t, guard.CanRecordPayment(licensor, license))
	assert.False(t, guard.CanRecordPayment(stranger, license))

	tester := uuid.New()
	trial := &models.FieldTrial{TesterID: tester}

	assert.True(t, guard.CanCompleteTrial(tester, trial))
	assert.False(t, guard.CanCompleteTrial(stranger, trial))
}
