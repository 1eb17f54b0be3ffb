// File: mendly/handlers/auth.go
package handlers

import (
	"net/http"

	"mendly/models"
	"mendly/services/auth"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, token refresh, and account registration.
type AuthHandler struct {
	Service auth.AuthService
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "email and password are required", nil)
		return
	}
	resp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("Login rejected", zap.String("email", req.Email))
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, resp)
}

// RefreshHandler handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "refreshToken is required", nil)
		return
	}
	pair, err := h.Service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, pair)
}

// RegisterHandler handles POST /api/auth/register. The public endpoint only
// creates customer accounts; staff and store admins are enrolled through
// POST /api/stores/:id/staff by a caller who manages that store.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid registration payload: "+err.Error(), nil)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if req.Role != models.RoleCustomer {
		utils.RespondError(c, http.StatusForbidden, utils.CodeAuthorization,
			"staff accounts are created through the store roster", nil)
		return
	}
	resp, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Account registered", zap.String("email", req.Email), zap.String("role", string(req.Role)))
	utils.Respond(c, http.StatusCreated, resp)
}
