// File: mendly/handlers/booking.go
package handlers

import (
	"net/http"
	"time"

	bookingRepo "mendly/database/repository/booking"
	"mendly/middleware"
	"mendly/models"
	"mendly/services/auth"
	"mendly/services/booking"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the reservation endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings. Customers book for
// themselves; staff and admins may book on behalf of a customer by setting
// customerId explicitly.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}

	var req struct {
		CustomerID      string                 `json:"customerId"`
		StoreID         string                 `json:"storeId" binding:"required"`
		TreatmentID     string                 `json:"treatmentId" binding:"required"`
		StaffID         string                 `json:"staffId"`
		BookingDateTime time.Time              `json:"bookingDateTime" binding:"required"`
		Notes           string                 `json:"notes"`
		Metadata        map[string]interface{} `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			"storeId, treatmentId and bookingDateTime are required", nil)
		return
	}

	customerID := req.CustomerID
	if p.Role == models.RoleCustomer {
		// Customers can only create bookings for themselves.
		if customerID != "" && customerID != p.UserID {
			forbidden(c)
			return
		}
		customerID = p.UserID
	} else {
		if customerID == "" {
			utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
				"customerId is required when booking on behalf of a customer", nil)
			return
		}
		if !auth.CanAccessStore(p, req.StoreID) {
			forbidden(c)
			return
		}
	}

	b, err := h.Service.Create(c.Request.Context(), booking.CreateRequest{
		CustomerID:      customerID,
		StoreID:         req.StoreID,
		TreatmentID:     req.TreatmentID,
		StaffID:         req.StaffID,
		BookingDateTime: req.BookingDateTime.UTC(),
		Notes:           req.Notes,
		Metadata:        req.Metadata,
		ActorRole:       p.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Booking created via API",
		zap.String("bookingID", b.ID), zap.String("storeID", b.StoreID))
	utils.Respond(c, http.StatusCreated, b)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !auth.CanViewBooking(p, b) {
		forbidden(c)
		return
	}
	utils.Respond(c, http.StatusOK, b)
}

// ListBookingsHandler handles GET /api/bookings. Customers get their own
// bookings; store roles get their store's, optionally filtered by status,
// staff and a date window.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	page, pageSize := pageParams(c)
	status := models.BookingStatus(c.Query("status"))

	if p.Role == models.RoleCustomer {
		bookings, total, err := h.Service.ListByCustomer(c.Request.Context(), p.UserID, status, page, pageSize)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.RespondPage(c, http.StatusOK, bookings, page, pageSize, total)
		return
	}

	storeID := c.Query("storeId")
	if storeID == "" {
		storeID = p.StoreID
	}
	if !auth.CanAccessStore(p, storeID) {
		forbidden(c)
		return
	}

	f := bookingRepo.ListFilter{
		Status:   status,
		StaffID:  c.Query("staffId"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "from must be RFC3339", nil)
			return
		}
		f.From = t.UTC()
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "to must be RFC3339", nil)
			return
		}
		f.To = t.UTC()
	}

	bookings, total, err := h.Service.ListByStore(c.Request.Context(), storeID, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, bookings, page, pageSize, total)
}

// UpdateBookingHandler handles PUT /api/bookings/:id. Reschedules and staff
// changes rerun the full admission checks.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	existing, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !auth.CanModifyBooking(p, existing) {
		forbidden(c)
		return
	}

	var req booking.ModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid booking update: "+err.Error(), nil)
		return
	}
	b, err := h.Service.Modify(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, b)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	existing, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !auth.CanModifyBooking(p, existing) {
		forbidden(c)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req) // reason is optional; an empty body is fine

	b, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Booking cancelled via API", zap.String("bookingID", b.ID))
	utils.Respond(c, http.StatusOK, b)
}

// transition is the shared shape of the four lifecycle endpoints.
func (h *BookingHandler) transition(c *gin.Context, do func(string) (*models.Booking, error)) {
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	existing, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !auth.CanTransitionBooking(p, existing) {
		forbidden(c)
		return
	}
	b, err := do(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, b)
}

// ConfirmBookingHandler handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(c, func(id string) (*models.Booking, error) {
		return h.Service.Confirm(c.Request.Context(), id)
	})
}

// StartBookingHandler handles POST /api/bookings/:id/start.
func (h *BookingHandler) StartBookingHandler(c *gin.Context) {
	h.transition(c, func(id string) (*models.Booking, error) {
		return h.Service.Start(c.Request.Context(), id)
	})
}

// CompleteBookingHandler handles POST /api/bookings/:id/complete.
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.transition(c, func(id string) (*models.Booking, error) {
		return h.Service.Complete(c.Request.Context(), id)
	})
}

// NoShowBookingHandler handles POST /api/bookings/:id/no-show.
func (h *BookingHandler) NoShowBookingHandler(c *gin.Context) {
	h.transition(c, func(id string) (*models.Booking, error) {
		return h.Service.MarkNoShow(c.Request.Context(), id)
	})
}
