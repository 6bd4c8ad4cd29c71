// internal/handlers/license_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/verdanthq/cultivar-backend/internal/middleware"
	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

type LicenseAPITestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	breeder *models.User
	grower  *models.User

	breederToken string
	growerToken  string
}

func (suite *LicenseAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.LicenseAgreement{},
		&models.RoyaltyPayment{},
	))
	suite.db = db

	suite.breeder = suite.createUser("breeder1", models.UserTypeBreeder)
	suite.grower = suite.createUser("grower1", models.UserTypeGrower)
	suite.breederToken = suite.tokenFor(suite.breeder)
	suite.growerToken = suite.tokenFor(suite.grower)

	guard := services.NewAuthorizationService()
	licenseService := services.NewLicenseService(db, guard)
	royaltyService := services.NewRoyaltyService(db, guard, nil)

	licenseHandler := NewLicenseHandler(licenseService)
	royaltyHandler := NewRoyaltyHandler(royaltyService)

	r := gin.New()
	v1 := r.Group("/v1")

	licenses := v1.Group("/licenses")
	licenses.GET("/:id", middleware.OptionalAuth(), licenseHandler.GetLicense)
	licenses.GET("/:id/payments", middleware.OptionalAuth(), royaltyHandler.ListPaymentsForLicense)

	protected := licenses.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("", licenseHandler.CreateLicense)
	protected.POST("/:id/terminate", licenseHandler.TerminateLicense)
	protected.POST("/:id/payments", royaltyHandler.RecordPayment)

	suite.router = r
}

func (suite *LicenseAPITestSuite) createUser(username string, userType models.UserType) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	suite.Require().NoError(user.SetPassword("TestPass123!"))
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *LicenseAPITestSuite) tokenFor(user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.UserType), 1)
	suite.Require().NoError(err)
	return token
}

func (suite *LicenseAPITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LicenseAPITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *LicenseAPITestSuite) createLicense() uint {
	w := suite.request("POST", "/v1/licenses", suite.breederToken, map[string]interface{}{
		"variety_id":    1,
		"licensee_id":   suite.grower.ID.String(),
		"license_type":  "non-exclusive",
		"royalty_rate":  5,
		"territory":     "North America",
		"duration_days": 1000,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	return uint(data["license_id"].(float64))
}

func (suite *LicenseAPITestSuite) TestCreateLicense() {
	licenseID := suite.createLicense()
	assert.Equal(suite.T(), uint(1), licenseID)

	w := suite.request("GET", "/v1/licenses/1", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))
	license := response["data"].(map[string]interface{})["license"].(map[string]interface{})
	assert.Equal(suite.T(), "active", license["status"])
	assert.Equal(suite.T(), "North America", license["territory"])
}

func (suite *LicenseAPITestSuite) TestCreateLicenseRequiresAuth() {
	w := suite.request("POST", "/v1/licenses", "", map[string]interface{}{
		"variety_id":    1,
		"licensee_id":   suite.grower.ID.String(),
		"license_type":  "research",
		"duration_days": 30,
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *LicenseAPITestSuite) TestTerminateLifecycle() {
	suite.createLicense()

	// Licensee cannot terminate
	w := suite.request("POST", "/v1/licenses/1/terminate", suite.growerToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	response := suite.decode(w)
	errObj := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "NOT_AUTHORIZED", errObj["code"])

	// Licensor terminates
	w = suite.request("POST", "/v1/licenses/1/terminate", suite.breederToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Second terminate conflicts
	w = suite.request("POST", "/v1/licenses/1/terminate", suite.breederToken, nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	response = suite.decode(w)
	errObj = response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "ALREADY_TERMINATED", errObj["code"])

	// Payments against a terminated license conflict
	w = suite.request("POST", "/v1/licenses/1/payments", suite.growerToken, map[string]interface{}{
		"amount": 10000,
		"period": "Q1-2024",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	response = suite.decode(w)
	errObj = response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "LICENSE_INACTIVE", errObj["code"])
}

func (suite *LicenseAPITestSuite) TestRecordAndListPayments() {
	suite.createLicense()

	w := suite.request("POST", "/v1/licenses/1/payments", suite.growerToken, map[string]interface{}{
		"amount": 10000,
		"period": "Q1-2024",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), data["payment_id"])

	// Licensor may not record payments
	w = suite.request("POST", "/v1/licenses/1/payments", suite.breederToken, map[string]interface{}{
		"amount": 5000,
		"period": "Q1-2024",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Listing is public
	w = suite.request("GET", "/v1/licenses/1/payments", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "1", w.Header().Get("X-Total-Count"))

	response = suite.decode(w)
	payments := response["data"].([]interface{})
	suite.Require().Len(payments, 1)
	payment := payments[0].(map[string]interface{})
	assert.Equal(suite.T(), float64(10000), payment["amount"])
	assert.Equal(suite.T(), "Q1-2024", payment["period"])
}

func (suite *LicenseAPITestSuite) TestUnknownLicense() {
	w := suite.request("GET", "/v1/licenses/404", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.request("GET", fmt.Sprintf("/v1/licenses/%d", 0), "", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestLicenseAPISuite(t *testing.T) {
	suite.Run(t, new(LicenseAPITestSuite))
}
