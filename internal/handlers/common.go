// internal/handlers/common.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdanthq/cultivar-backend/internal/services"
	"github.com/verdanthq/cultivar-backend/internal/utils"
)

// currentPrincipal extracts the acting principal set by the auth
// middleware. Every mutating service call receives it explicitly.
func currentPrincipal(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	principalID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return principalID, true
}

// pathID parses a sequential ledger id from a route parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// handleServiceError maps the registry's error kinds onto precise HTTP
// responses so clients can render exact messages.
func handleServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrNotAuthorized):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		utils.ErrorResponse(c, 400, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, services.ErrLicenseInactive):
		utils.ConflictResponse(c, "LICENSE_INACTIVE", err.Error())
	case errors.Is(err, services.ErrAlreadyTerminated):
		utils.ConflictResponse(c, "ALREADY_TERMINATED", err.Error())
	case errors.Is(err, services.ErrAlreadyCompleted):
		utils.ConflictResponse(c, "ALREADY_COMPLETED", err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
