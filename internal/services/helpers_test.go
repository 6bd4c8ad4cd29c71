// internal/services/helpers_test.go
package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/verdanthq/cultivar-backend/internal/models"
)

// setupTestDB opens an in-memory database with the registry schema.
// The pool is pinned to one connection so every query sees the same
// in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LicenseAgreement{},
		&models.RoyaltyPayment{},
		&models.FieldTrial{},
		&models.FieldTrialResult{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)

	return user
}

// expireLicense backdates an agreement's end date so the next read
// derives expired status. The stored status row is left untouched.
func expireLicense(t *testing.T, db *gorm.DB, licenseID uint) {
	t.Helper()

	err := db.Model(&models.LicenseAgreement{}).
		Where("id = ?", licenseID).
		Update("end_date", time.Now().Add(-48*time.Hour)).Error
	require.NoError(t, err)
}

var unknownPrincipal = uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
