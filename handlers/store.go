// File: mendly/handlers/store.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mendly/middleware"
	"mendly/models"
	"mendly/services/auth"
	"mendly/services/store"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreHandler serves the store registry endpoints.
type StoreHandler struct {
	Service store.StoreService
}

// CreateStoreHandler handles POST /api/stores. Super admin only (enforced
// by route middleware).
func (h *StoreHandler) CreateStoreHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var st models.Store
	if err := c.ShouldBindJSON(&st); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid store payload: "+err.Error(), nil)
		return
	}
	created, err := h.Service.Create(c.Request.Context(), &st)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Store created", zap.String("storeID", created.ID), zap.String("name", created.Name))
	utils.Respond(c, http.StatusCreated, created)
}

// GetStoreHandler handles GET /api/stores/:id.
func (h *StoreHandler) GetStoreHandler(c *gin.Context) {
	st, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, st)
}

// ListStoresHandler handles GET /api/stores.
func (h *StoreHandler) ListStoresHandler(c *gin.Context) {
	page, pageSize := pageParams(c)
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("activeOnly", "true"))
	stores, total, err := h.Service.List(c.Request.Context(), page, pageSize, activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, stores, page, pageSize, total)
}

// UpdateStoreHandler handles PUT /api/stores/:id.
func (h *StoreHandler) UpdateStoreHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, c.Param("id")) {
		forbidden(c)
		return
	}
	var upd store.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid store update: "+err.Error(), nil)
		return
	}
	st, err := h.Service.UpdateProfile(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, st)
}

// UpdateStoreSettingsHandler handles PUT /api/stores/:id/settings. The
// body is a shallow patch: absent keys keep their value, null resets to
// default, explicit values override.
func (h *StoreHandler) UpdateStoreSettingsHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, c.Param("id")) {
		forbidden(c)
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "settings patch must be a JSON object", nil)
		return
	}
	st, err := h.Service.UpdateSettings(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, st)
}

// GetStoreHoursHandler handles GET /api/stores/:id/hours?date=YYYY-MM-DD.
// With a date it resolves that day's window in the store's zone; without
// one it returns the weekly schedule and whether the store is open now.
func (h *StoreHandler) GetStoreHoursHandler(c *gin.Context) {
	st, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if date := c.Query("date"); date != "" {
		localDate, err := store.ParseLocalDate(st, date)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		day := store.HoursForDate(st, localDate)
		if day == nil {
			utils.Respond(c, http.StatusOK, gin.H{"date": date, "isOpen": false})
			return
		}
		utils.Respond(c, http.StatusOK, gin.H{
			"date":   date,
			"isOpen": true,
			"open":   day.Open,
			"close":  day.Close,
		})
		return
	}

	utils.Respond(c, http.StatusOK, gin.H{
		"timezone":       st.Timezone,
		"operatingHours": st.OperatingHours,
		"isOpenNow":      store.IsOpenNow(st, time.Now().UTC()),
	})
}

// SetStoreActiveHandler handles PUT /api/stores/:id/active.
func (h *StoreHandler) SetStoreActiveHandler(c *gin.Context) {
	logger := utils.GetLogger()
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, c.Param("id")) {
		forbidden(c)
		return
	}
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "isActive is required", nil)
		return
	}
	st, err := h.Service.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Store active flag changed", zap.String("storeID", st.ID), zap.Bool("isActive", st.IsActive))
	utils.Respond(c, http.StatusOK, st)
}
