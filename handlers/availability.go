// File: mendly/handlers/availability.go
package handlers

import (
	"net/http"

	"mendly/services/scheduling"
	"mendly/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the customer-facing availability lookup.
type AvailabilityHandler struct {
	Service scheduling.SchedulingService
}

// GetAvailabilityHandler handles
// GET /api/availability/slots?storeId=&treatmentId=&date=.
// It returns every admissible start time for the treatment on that date,
// with remaining capacity and the staff who could take the booking.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	storeID := c.Query("storeId")
	treatmentID := c.Query("treatmentId")
	date := c.Query("date")
	if storeID == "" || treatmentID == "" || date == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			"storeId, treatmentId and date query parameters are required", nil)
		return
	}
	slots, err := h.Service.AvailabilityForTreatment(c.Request.Context(), storeID, treatmentID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{
		"storeId":     storeID,
		"treatmentId": treatmentID,
		"date":        date,
		"slots":       slots,
	})
}
