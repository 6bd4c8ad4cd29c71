// internal/services/license_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

type LicenseServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *LicenseService
	breeder  *models.User
	grower   *models.User
	outsider *models.User
}

func (suite *LicenseServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewLicenseService(suite.db, NewAuthorizationService())
	suite.breeder = createTestUser(suite.T(), suite.db, "breeder1", models.UserTypeBreeder)
	suite.grower = createTestUser(suite.T(), suite.db, "grower1", models.UserTypeGrower)
	suite.outsider = createTestUser(suite.T(), suite.db, "grower2", models.UserTypeGrower)
}

func (suite *LicenseServiceTestSuite) createLicense(durationDays int) *models.LicenseAgreement {
	license, err := suite.service.CreateLicense(suite.breeder.ID, &CreateLicenseRequest{
		VarietyID:    1,
		LicenseeID:   suite.grower.ID,
		LicenseType:  models.LicenseTypeNonExclusive,
		RoyaltyRate:  5,
		Territory:    "North America",
		DurationDays: durationDays,
	})
	suite.Require().NoError(err)
	return license
}

func (suite *LicenseServiceTestSuite) TestCreateLicenseAssignsSequentialIDs() {
	first := suite.createLicense(1000)
	second := suite.createLicense(1000)
	third := suite.createLicense(1000)

	assert.Equal(suite.T(), uint(1), first.ID)
	assert.Equal(suite.T(), uint(2), second.ID)
	assert.Equal(suite.T(), uint(3), third.ID)
}

func (suite *LicenseServiceTestSuite) TestCreateLicenseRoundTrip() {
	created := suite.createLicense(1000)

	fetched, err := suite.service.GetLicense(created.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(1), fetched.VarietyID)
	assert.Equal(suite.T(), suite.breeder.ID, fetched.LicensorID)
	assert.Equal(suite.T(), suite.grower.ID, fetched.LicenseeID)
	assert.Equal(suite.T(), models.LicenseTypeNonExclusive, fetched.LicenseType)
	assert.Equal(suite.T(), 5, fetched.RoyaltyRate)
	assert.Equal(suite.T(), "North America", fetched.Territory)
	assert.Equal(suite.T(), models.LicenseStatusActive, fetched.Status)
	assert.Nil(suite.T(), fetched.TerminatedAt)

	expectedEnd := fetched.StartDate.AddDate(0, 0, 1000)
	assert.WithinDuration(suite.T(), expectedEnd, fetched.EndDate, time.Second)
}

func (suite *LicenseServiceTestSuite) TestCreateLicenseDuplicatesAllowed() {
	first := suite.createLicense(1000)
	second := suite.createLicense(1000)

	assert.NotEqual(suite.T(), first.ID, second.ID)
}

func (suite *LicenseServiceTestSuite) TestCreateLicenseValidation() {
	cases := []struct {
		name string
		req  CreateLicenseRequest
	}{
		{"negative variety id", CreateLicenseRequest{VarietyID: -1, LicenseeID: suite.grower.ID, LicenseType: models.LicenseTypeResearch, RoyaltyRate: 5, DurationDays: 30}},
		{"royalty rate below range", CreateLicenseRequest{VarietyID: 1, LicenseeID: suite.grower.ID, LicenseType: models.LicenseTypeResearch, RoyaltyRate: -1, DurationDays: 30}},
		{"royalty rate above range", CreateLicenseRequest{VarietyID: 1, LicenseeID: suite.grower.ID, LicenseType: models.LicenseTypeResearch, RoyaltyRate: 101, DurationDays: 30}},
		{"zero duration", CreateLicenseRequest{VarietyID: 1, LicenseeID: suite.grower.ID, LicenseType: models.LicenseTypeResearch, RoyaltyRate: 5, DurationDays: 0}},
		{"negative duration", CreateLicenseRequest{VarietyID: 1, LicenseeID: suite.grower.ID, LicenseType: models.LicenseTypeResearch, RoyaltyRate: 5, DurationDays: -10}},
		{"missing license type", CreateLicenseRequest{VarietyID: 1, LicenseeID: suite.grower.ID, RoyaltyRate: 5, DurationDays: 30}},
		{"unknown licensee", CreateLicenseRequest{VarietyID: 1, LicenseeID: unknownPrincipal, LicenseType: models.LicenseTypeResearch, RoyaltyRate: 5, DurationDays: 30}},
	}

	for _, tc := range cases {
		req := tc.req
		_, err := suite.service.CreateLicense(suite.breeder.ID, &req)
		assert.ErrorIs(suite.T(), err, ErrInvalidArgument, tc.name)
	}

	// Nothing was written
	var count int64
	suite.db.Model(&models.LicenseAgreement{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *LicenseServiceTestSuite) TestCreateLicenseRoyaltyRateBounds() {
	for _, rate := range []int{0, 100} {
		_, err := suite.service.CreateLicense(suite.breeder.ID, &CreateLicenseRequest{
			VarietyID:    1,
			LicenseeID:   suite.grower.ID,
			LicenseType:  models.LicenseTypeResearch,
			RoyaltyRate:  rate,
			DurationDays: 30,
		})
		assert.NoError(suite.T(), err)
	}
}

func (suite *LicenseServiceTestSuite) TestTerminateLicense() {
	license := suite.createLicense(1000)

	terminated, err := suite.service.TerminateLicense(suite.breeder.ID, license.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.LicenseStatusTerminated, terminated.Status)
	assert.NotNil(suite.T(), terminated.TerminatedAt)

	fetched, err := suite.service.GetLicense(license.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.LicenseStatusTerminated, fetched.Status)
}

func (suite *LicenseServiceTestSuite) TestTerminateLicenseOnlyLicensor() {
	license := suite.createLicense(1000)

	// Neither the licensee nor a third party may terminate
	for _, caller := range []*models.User{suite.grower, suite.outsider} {
		_, err := suite.service.TerminateLicense(caller.ID, license.ID)
		assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
	}

	fetched, err := suite.service.GetLicense(license.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.LicenseStatusActive, fetched.Status)
}

func (suite *LicenseServiceTestSuite) TestTerminateLicenseTwice() {
	license := suite.createLicense(1000)

	_, err := suite.service.TerminateLicense(suite.breeder.ID, license.ID)
	suite.Require().NoError(err)

	_, err = suite.service.TerminateLicense(suite.breeder.ID, license.ID)
	assert.ErrorIs(suite.T(), err, ErrAlreadyTerminated)
}

func (suite *LicenseServiceTestSuite) TestTerminateLicenseNotFound() {
	_, err := suite.service.TerminateLicense(suite.breeder.ID, 404)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *LicenseServiceTestSuite) TestReadTimeExpiry() {
	license := suite.createLicense(30)
	expireLicense(suite.T(), suite.db, license.ID)

	fetched, err := suite.service.GetLicense(license.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.LicenseStatusExpired, fetched.Status)

	// Expiry is derived on read; the row still stores active
	var stored models.LicenseAgreement
	suite.Require().NoError(suite.db.First(&stored, license.ID).Error)
	assert.Equal(suite.T(), models.LicenseStatusActive, stored.Status)
}

func (suite *LicenseServiceTestSuite) TestTerminateExpiredLicense() {
	// Terminate checks the stored status, so an agreement past its end
	// date can still be closed out for the record.
	license := suite.createLicense(30)
	expireLicense(suite.T(), suite.db, license.ID)

	terminated, err := suite.service.TerminateLicense(suite.breeder.ID, license.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.LicenseStatusTerminated, terminated.Status)
}

func (suite *LicenseServiceTestSuite) TestSearchLicensesByStatus() {
	active := suite.createLicense(1000)
	expired := suite.createLicense(30)
	terminated := suite.createLicense(1000)

	expireLicense(suite.T(), suite.db, expired.ID)
	_, err := suite.service.TerminateLicense(suite.breeder.ID, terminated.ID)
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "id", Order: "asc"}

	for _, tc := range []struct {
		status models.LicenseStatus
		wantID uint
	}{
		{models.LicenseStatusActive, active.ID},
		{models.LicenseStatusExpired, expired.ID},
		{models.LicenseStatusTerminated, terminated.ID},
	} {
		status := tc.status
		results, total, err := suite.service.SearchLicenses(LicenseSearchParams{
			PaginationParams: params,
			Status:           &status,
		})
		suite.Require().NoError(err)
		assert.Equal(suite.T(), int64(1), total, string(tc.status))
		suite.Require().Len(results, 1, string(tc.status))
		assert.Equal(suite.T(), tc.wantID, results[0].ID)
		assert.Equal(suite.T(), tc.status, results[0].Status)
	}
}

func (suite *LicenseServiceTestSuite) TestSearchLicensesByParties() {
	suite.createLicense(1000)

	other, err := suite.service.CreateLicense(suite.outsider.ID, &CreateLicenseRequest{
		VarietyID:    2,
		LicenseeID:   suite.grower.ID,
		LicenseType:  models.LicenseTypeExclusive,
		RoyaltyRate:  10,
		DurationDays: 365,
	})
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "id", Order: "asc"}

	licensorID := suite.outsider.ID
	results, total, err := suite.service.SearchLicenses(LicenseSearchParams{
		PaginationParams: params,
		LicensorID:       &licensorID,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(results, 1)
	assert.Equal(suite.T(), other.ID, results[0].ID)

	licenseeID := suite.grower.ID
	_, total, err = suite.service.SearchLicenses(LicenseSearchParams{
		PaginationParams: params,
		LicenseeID:       &licenseeID,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), total)

	varietyID := int64(2)
	results, _, err = suite.service.SearchLicenses(LicenseSearchParams{
		PaginationParams: params,
		VarietyID:        &varietyID,
	})
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	assert.Equal(suite.T(), other.ID, results[0].ID)
}

func (suite *LicenseServiceTestSuite) TestGetLicenseNotFound() {
	_, err := suite.service.GetLicense(99)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func TestLicenseServiceSuite(t *testing.T) {
	suite.Run(t, new(LicenseServiceTestSuite))
}
