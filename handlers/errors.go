// File: mendly/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"mendly/database/repository"
	"mendly/services/booking"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError translates service and repository errors into API
// responses. Handlers call it for any error they do not handle themselves,
// so status codes stay consistent across the whole surface.
func respondServiceError(c *gin.Context, err error) {
	var adm *booking.AdmissionError
	if errors.As(err, &adm) {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, adm.Message, gin.H{"reason": adm.Reason})
		return
	}

	var ve *utils.ValidationError
	if errors.As(err, &ve) {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, ve.Msg, nil)
		return
	}

	var ce *utils.ConflictError
	if errors.As(err, &ce) {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, ce.Msg, nil)
		return
	}

	var ae *utils.AuthError
	if errors.As(err, &ae) {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, ae.Msg, nil)
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, "resource not found", nil)
	case errors.Is(err, repository.ErrDuplicate):
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, "resource already exists", nil)
	case errors.Is(err, repository.ErrSlotFull):
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, "timeslot is at capacity", nil)
	case errors.Is(err, repository.ErrSlotsBooked):
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, "existing bookings reference the affected timeslots", nil)
	case errors.Is(err, utils.ErrLockNotAcquired):
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, "store is busy, retry shortly", nil)
	default:
		utils.GetLogger().Error("Unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error", nil)
	}
}

// forbidden writes the standard authorization failure response.
func forbidden(c *gin.Context) {
	utils.RespondError(c, http.StatusForbidden, utils.CodeAuthorization, "insufficient permissions", nil)
}
