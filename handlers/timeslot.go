// File: mendly/handlers/timeslot.go
package handlers

import (
	"net/http"

	"mendly/middleware"
	"mendly/services/auth"
	"mendly/services/scheduling"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimeslotHandler serves slot generation and listing for store staff.
type TimeslotHandler struct {
	Service scheduling.SchedulingService
}

// GenerateSlotsHandler handles POST /api/stores/:id/timeslots/generate.
// Regenerating an existing date replaces its unbooked slots.
func (h *TimeslotHandler) GenerateSlotsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	storeID := c.Param("id")
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, storeID) {
		forbidden(c)
		return
	}
	var req struct {
		Date                string   `json:"date" binding:"required"`
		SlotDurationMinutes int      `json:"slotDurationMinutes"`
		MaxCapacity         int      `json:"maxCapacity"`
		TreatmentTypes      []string `json:"treatmentTypes"`
		StaffIDs            []string `json:"staffIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "date is required (YYYY-MM-DD)", nil)
		return
	}
	slots, err := h.Service.GenerateDailySlots(c.Request.Context(), storeID, req.Date, scheduling.GenerateOptions{
		SlotDurationMinutes: req.SlotDurationMinutes,
		MaxCapacity:         req.MaxCapacity,
		TreatmentTypes:      req.TreatmentTypes,
		StaffIDs:            req.StaffIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Timeslots generated", zap.String("storeID", storeID),
		zap.String("date", req.Date), zap.Int("count", len(slots)))
	utils.Respond(c, http.StatusCreated, gin.H{"date": req.Date, "slots": slots})
}

// GenerateRangeHandler handles POST /api/stores/:id/timeslots/generate-range.
func (h *TimeslotHandler) GenerateRangeHandler(c *gin.Context) {
	logger := utils.GetLogger()
	storeID := c.Param("id")
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, storeID) {
		forbidden(c)
		return
	}
	var req struct {
		StartDate           string   `json:"startDate" binding:"required"`
		EndDate             string   `json:"endDate" binding:"required"`
		SlotDurationMinutes int      `json:"slotDurationMinutes"`
		MaxCapacity         int      `json:"maxCapacity"`
		TreatmentTypes      []string `json:"treatmentTypes"`
		StaffIDs            []string `json:"staffIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "startDate and endDate are required (YYYY-MM-DD)", nil)
		return
	}
	slots, err := h.Service.GenerateRange(c.Request.Context(), storeID, req.StartDate, req.EndDate, scheduling.GenerateOptions{
		SlotDurationMinutes: req.SlotDurationMinutes,
		MaxCapacity:         req.MaxCapacity,
		TreatmentTypes:      req.TreatmentTypes,
		StaffIDs:            req.StaffIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Timeslot range generated", zap.String("storeID", storeID),
		zap.String("from", req.StartDate), zap.String("to", req.EndDate), zap.Int("count", len(slots)))
	utils.Respond(c, http.StatusCreated, gin.H{"startDate": req.StartDate, "endDate": req.EndDate, "slots": slots})
}

// ListSlotsHandler handles GET /api/stores/:id/timeslots?date=YYYY-MM-DD.
// With available=true only slots that still take bookings are returned.
// Customers query /api/availability/slots instead; the raw index with its
// occupancy counters is store-internal.
func (h *TimeslotHandler) ListSlotsHandler(c *gin.Context) {
	storeID := c.Param("id")
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanAccessStore(p, storeID) {
		forbidden(c)
		return
	}
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "date query parameter is required", nil)
		return
	}
	var err error
	var slots interface{}
	if c.Query("available") == "true" {
		slots, err = h.Service.FindAvailableForDate(c.Request.Context(), storeID, date)
	} else {
		slots, err = h.Service.ListForDate(c.Request.Context(), storeID, date)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, slots)
}
