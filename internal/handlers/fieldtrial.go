// internal/handlers/fieldtrial.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verdanthq/cultivar-backend/internal/models"
	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

type FieldTrialHandler struct {
	trialService *services.FieldTrialService
}

func NewFieldTrialHandler(trialService *services.FieldTrialService) *FieldTrialHandler {
	return &FieldTrialHandler{
		trialService: trialService,
	}
}

// POST /field-trials
func (h *FieldTrialHandler) StartTrial(c *gin.Context) {
	testerID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req services.StartTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	trial, err := h.trialService.StartTrial(testerID, &req)
	if err != nil {
		handleServiceError(c, err, "field trial")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"trial_id": trial.ID,
		"trial":    trial,
	})
}

// PUT /field-trials/:id/complete
func (h *FieldTrialHandler) CompleteTrial(c *gin.Context) {
	callerID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	trialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CompleteTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	trial, err := h.trialService.CompleteTrial(callerID, trialID, &req)
	if err != nil {
		handleServiceError(c, err, "field trial")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Field trial completed",
		"trial":   trial,
	})
}

// GET /field-trials/:id
func (h *FieldTrialHandler) GetTrial(c *gin.Context) {
	trialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	trial, err := h.trialService.GetTrial(trialID)
	if err != nil {
		handleServiceError(c, err, "field trial")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"trial": trial,
	})
}

// GET /field-trials/:id/results
func (h *FieldTrialHandler) GetTrialResults(c *gin.Context) {
	trialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.trialService.GetTrialResults(trialID)
	if err != nil {
		handleServiceError(c, err, "field trial results")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"results": result,
	})
}

// POST /field-trials/:id/report
func (h *FieldTrialHandler) UploadTrialReport(c *gin.Context) {
	callerID, ok := currentPrincipal(c)
	if !ok {
		return
	}

	trialID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("report")
	if err != nil {
		utils.BadRequestResponse(c, "Report file is required", nil)
		return
	}
	defer file.Close()

	trial, err := h.trialService.AttachReport(callerID, trialID, file, header)
	if err != nil {
		handleServiceError(c, err, "field trial")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Report uploaded",
		"trial":   trial,
	})
}

// GET /field-trials
func (h *FieldTrialHandler) SearchTrials(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var varietyID *int64
	if varietyStr := c.Query("variety_id"); varietyStr != "" {
		if parsed, err := strconv.ParseInt(varietyStr, 10, 64); err == nil {
			varietyID = &parsed
		}
	}

	var status *models.TrialStatus
	if statusStr := c.Query("status"); statusStr != "" {
		trialStatus := models.TrialStatus(statusStr)
		status = &trialStatus
	}

	trials, total, err := h.trialService.SearchTrials(varietyID, status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(trials, total, params)
	utils.PaginatedResponse(c, result)
}
