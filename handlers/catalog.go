// File: mendly/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"mendly/middleware"
	"mendly/models"
	"mendly/services/auth"
	"mendly/services/catalog"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves treatment and resource endpoints.
type CatalogHandler struct {
	Service catalog.CatalogService
}

// canManage resolves the owning store of a catalog object and checks the
// caller may manage it.
func (h *CatalogHandler) canManage(c *gin.Context, storeID string) bool {
	p, ok := middleware.Principal(c)
	return ok && auth.CanManageStore(p, storeID)
}

// CreateTreatmentHandler handles POST /api/treatments.
func (h *CatalogHandler) CreateTreatmentHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var t models.Treatment
	if err := c.ShouldBindJSON(&t); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid treatment payload: "+err.Error(), nil)
		return
	}
	if !h.canManage(c, t.StoreID) {
		forbidden(c)
		return
	}
	created, err := h.Service.CreateTreatment(c.Request.Context(), &t)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Treatment created", zap.String("treatmentID", created.ID), zap.String("storeID", created.StoreID))
	utils.Respond(c, http.StatusCreated, created)
}

// GetTreatmentHandler handles GET /api/treatments/:id.
func (h *CatalogHandler) GetTreatmentHandler(c *gin.Context) {
	t, err := h.Service.GetTreatment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, t)
}

// ListTreatmentsHandler handles GET /api/stores/:id/treatments.
func (h *CatalogHandler) ListTreatmentsHandler(c *gin.Context) {
	page, pageSize := pageParams(c)
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("activeOnly", "true"))
	treatments, total, err := h.Service.ListTreatments(c.Request.Context(), c.Param("id"), activeOnly, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, treatments, page, pageSize, total)
}

// UpdateTreatmentHandler handles PUT /api/treatments/:id.
func (h *CatalogHandler) UpdateTreatmentHandler(c *gin.Context) {
	existing, err := h.Service.GetTreatment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !h.canManage(c, existing.StoreID) {
		forbidden(c)
		return
	}
	var upd catalog.TreatmentUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid treatment update: "+err.Error(), nil)
		return
	}
	t, err := h.Service.UpdateTreatment(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, t)
}

// DeactivateTreatmentHandler handles DELETE /api/treatments/:id. Treatments
// are soft-deleted so historical bookings keep their reference.
func (h *CatalogHandler) DeactivateTreatmentHandler(c *gin.Context) {
	logger := utils.GetLogger()
	existing, err := h.Service.GetTreatment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !h.canManage(c, existing.StoreID) {
		forbidden(c)
		return
	}
	if err := h.Service.DeactivateTreatment(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Treatment deactivated", zap.String("treatmentID", c.Param("id")))
	utils.Respond(c, http.StatusOK, gin.H{"message": "treatment deactivated"})
}

// CreateResourceHandler handles POST /api/resources.
func (h *CatalogHandler) CreateResourceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var r models.Resource
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid resource payload: "+err.Error(), nil)
		return
	}
	if !h.canManage(c, r.StoreID) {
		forbidden(c)
		return
	}
	created, err := h.Service.CreateResource(c.Request.Context(), &r)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Resource created", zap.String("resourceID", created.ID), zap.String("storeID", created.StoreID))
	utils.Respond(c, http.StatusCreated, created)
}

// GetResourceHandler handles GET /api/resources/:id.
func (h *CatalogHandler) GetResourceHandler(c *gin.Context) {
	r, err := h.Service.GetResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, r)
}

// ListResourcesHandler handles GET /api/stores/:id/resources.
func (h *CatalogHandler) ListResourcesHandler(c *gin.Context) {
	page, pageSize := pageParams(c)
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("activeOnly", "true"))
	resources, total, err := h.Service.ListResources(c.Request.Context(), c.Param("id"), activeOnly, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, resources, page, pageSize, total)
}

// UpdateResourceHandler handles PUT /api/resources/:id.
func (h *CatalogHandler) UpdateResourceHandler(c *gin.Context) {
	existing, err := h.Service.GetResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !h.canManage(c, existing.StoreID) {
		forbidden(c)
		return
	}
	var upd catalog.ResourceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid resource update: "+err.Error(), nil)
		return
	}
	r, err := h.Service.UpdateResource(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, r)
}
