// File: mendly/handlers/user.go
package handlers

import (
	"net/http"

	userRepo "mendly/database/repository/user"
	"mendly/middleware"
	"mendly/models"
	"mendly/services/auth"
	"mendly/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account lookups and staff enrolment.
type UserHandler struct {
	Users userRepo.UserRepository
	Auth  auth.AuthService
}

// MeHandler handles GET /api/users/me.
func (h *UserHandler) MeHandler(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeAuthentication, "Authentication required", nil)
		return
	}
	u, err := h.Users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, u)
}

// ListStoreStaffHandler handles GET /api/stores/:id/staff. Store roles see
// their own store's roster; customers cannot enumerate staff.
func (h *UserHandler) ListStoreStaffHandler(c *gin.Context) {
	storeID := c.Param("id")
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanAccessStore(p, storeID) {
		forbidden(c)
		return
	}
	staff, err := h.Users.ListStaffByStore(c.Request.Context(), storeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, staff)
}

// ListUsersHandler handles GET /api/users?role=. Super admin only, enforced
// by route middleware.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	page, pageSize := pageParams(c)
	users, total, err := h.Users.List(c.Request.Context(), models.Role(c.Query("role")), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, users, page, pageSize, total)
}

// CreateStaffHandler handles POST /api/stores/:id/staff. Store admins enrol
// staff for their own store; only super admins may mint more store admins.
func (h *UserHandler) CreateStaffHandler(c *gin.Context) {
	storeID := c.Param("id")
	p, ok := middleware.Principal(c)
	if !ok || !auth.CanManageStore(p, storeID) {
		forbidden(c)
		return
	}

	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid staff payload: "+err.Error(), nil)
		return
	}
	req.StoreID = storeID
	if req.Role == "" {
		req.Role = models.RoleStaff
	}
	if req.Role != models.RoleStaff && req.Role != models.RoleStoreAdmin {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "role must be staff or store_admin", nil)
		return
	}
	if req.Role == models.RoleStoreAdmin && p.Role != models.RoleSuperAdmin {
		forbidden(c)
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, u)
}
