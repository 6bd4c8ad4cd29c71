// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/verdanthq/cultivar-backend/internal/config"
	"github.com/verdanthq/cultivar-backend/internal/handlers"
	"github.com/verdanthq/cultivar-backend/internal/middleware"
	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	settlementService := services.NewSettlementService(cfg)
	authorizationService := services.NewAuthorizationService()

	authService := services.NewAuthService(db, cfg)
	licenseService := services.NewLicenseService(db, authorizationService)
	royaltyService := services.NewRoyaltyService(db, authorizationService, settlementService)
	trialService := services.NewFieldTrialService(db, authorizationService, storageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	royaltyHandler := handlers.NewRoyaltyHandler(royaltyService)
	trialHandler := handlers.NewFieldTrialHandler(trialService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// License agreement routes
		licenses := v1.Group("/licenses")
		{
			// Agreement state is public record; reads need no principal.
			licenses.GET("", middleware.OptionalAuth(), licenseHandler.SearchLicenses)
			licenses.GET("/:id", middleware.OptionalAuth(), licenseHandler.GetLicense)
			licenses.GET("/:id/payments", middleware.OptionalAuth(), royaltyHandler.ListPaymentsForLicense)

			// Mutations require an authenticated principal
			protected := licenses.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", licenseHandler.CreateLicense)
				protected.POST("/:id/terminate", licenseHandler.TerminateLicense)
				protected.POST("/:id/payments", royaltyHandler.RecordPayment)
			}
		}

		// Royalty payment routes
		payments := v1.Group("/payments")
		{
			payments.GET("/:id", middleware.OptionalAuth(), royaltyHandler.GetPayment)
		}

		// Field trial routes
		trials := v1.Group("/field-trials")
		{
			trials.GET("", middleware.OptionalAuth(), trialHandler.SearchTrials)
			trials.GET("/:id", middleware.OptionalAuth(), trialHandler.GetTrial)
			trials.GET("/:id/results", middleware.OptionalAuth(), trialHandler.GetTrialResults)

			protected := trials.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", trialHandler.StartTrial)
				protected.PUT("/:id/complete", trialHandler.CompleteTrial)
				protected.POST("/:id/report", middleware.UploadRateLimit(), trialHandler.UploadTrialReport)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
