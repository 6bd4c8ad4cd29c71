// internal/handlers/license.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /licenses
func (h *LicenseHandler) CreateLicense(c *gin.Context) {
	licensorID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req services.CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, err := h.licenseService.CreateLicense(licensorID, &req)
	if err != nil {
		handleServiceError(c, err, "license")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"license_id": license.ID,
		"license":    license,
	})
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	licenseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	license, err := h.licenseService.GetLicense(licenseID)
	if err != nil {
		handleServiceError(c, err, "license")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license": license,
	})
}

// POST /licenses/:id/terminate
func (h *LicenseHandler) TerminateLicense(c *gin.Context) {
	callerID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	licenseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	license, err := h.licenseService.TerminateLicense(callerID, licenseID)
	if err != nil {
		handleServiceError(c, err, "license")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "License terminated",
		"license": license,
	})
}

// GET /licenses
func (h *LicenseHandler) SearchLicenses(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.LicenseSearchParams{
		PaginationParams: params,
	}

	if licensorStr := c.Query("licensor_id"); licensorStr != "" {
		if licensorID, err := uuid.Parse(licensorStr); err == nil {
			searchParams.LicensorID = &licensorID
		}
	}

	if licenseeStr := c.Query("licensee_id"); licenseeStr != "" {
		if licenseeID, err := uuid.Parse(licenseeStr); err == nil {
			searchParams.LicenseeID = &licenseeID
		}
	}

	if varietyStr := c.Query("variety_id"); varietyStr != "" {
		if varietyID, err := strconv.ParseInt(varietyStr, 10, 64); err == nil {
			searchParams.VarietyID = &varietyID
		}
	}

	if status := c.Query("status"); status != "" {
		licenseStatus := models.LicenseStatus(status)
		searchParams.Status = &licenseStatus
	}

	licenses, total, err := h.licenseService.SearchLicenses(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(licenses, total, params)
	utils.PaginatedResponse(c, result)
}
