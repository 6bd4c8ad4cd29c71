// internal/handlers/royalty.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

type RoyaltyHandler struct {
	royaltyService *services.RoyaltyService
}

func NewRoyaltyHandler(royaltyService *services.RoyaltyService) *RoyaltyHandler {
	return &RoyaltyHandler{
		royaltyService: royaltyService,
	}
}

// POST /licenses/:id/payments
func (h *RoyaltyHandler) RecordPayment(c *gin.Context) {
	callerID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	licenseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	payment, err := h.royaltyService.RecordPayment(callerID, licenseID, &req)
	if err != nil {
		handleServiceError(c, err, "license")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"payment_id": payment.ID,
		"payment":    payment,
	})
}

// GET /payments/:id
func (h *RoyaltyHandler) GetPayment(c *gin.Context) {
	paymentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.royaltyService.GetPayment(paymentID)
	if err != nil {
		handleServiceError(c, err, "payment")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payment": payment,
	})
}

// GET /licenses/:id/payments
func (h *RoyaltyHandler) ListPaymentsForLicense(c *gin.Context) {
	licenseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	payments, total, err := h.royaltyService.ListPaymentsForLicense(licenseID, params)
	if err != nil {
		handleServiceError(c, err, "license")
		return
	}

	result := utils.CreatePaginationResult(payments, total, params)
	utils.PaginatedResponse(c, result)
}
