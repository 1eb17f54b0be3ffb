// File: mendly/handlers/webhook.go
package handlers

import (
	"net/http"
	"time"

	"mendly/services/webhook"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler serves webhook subscription management. Every route is
// super_admin only, enforced by route middleware.
type WebhookHandler struct {
	Service webhook.SubscriptionService
}

// CreateSubscriptionHandler handles POST /api/webhooks. The response is the
// only place the signing secret ever appears in plaintext.
func (h *WebhookHandler) CreateSubscriptionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req struct {
		URL        string   `json:"url" binding:"required"`
		Events     []string `json:"events" binding:"required"`
		MaxRetries *int     `json:"maxRetries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "url and events are required", nil)
		return
	}
	created, err := h.Service.Create(c.Request.Context(), req.URL, req.Events, req.MaxRetries)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Webhook subscription created",
		zap.String("subscriptionID", created.ID), zap.String("url", created.URL))
	utils.Respond(c, http.StatusCreated, created)
}

// GetSubscriptionHandler handles GET /api/webhooks/:id.
func (h *WebhookHandler) GetSubscriptionHandler(c *gin.Context) {
	sub, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, sub)
}

// ListSubscriptionsHandler handles GET /api/webhooks.
func (h *WebhookHandler) ListSubscriptionsHandler(c *gin.Context) {
	page, pageSize := pageParams(c)
	subs, total, err := h.Service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, http.StatusOK, subs, page, pageSize, total)
}

// UpdateSubscriptionHandler handles PUT /api/webhooks/:id.
func (h *WebhookHandler) UpdateSubscriptionHandler(c *gin.Context) {
	var upd webhook.SubscriptionUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "invalid subscription update: "+err.Error(), nil)
		return
	}
	sub, err := h.Service.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, sub)
}

// DeleteSubscriptionHandler handles DELETE /api/webhooks/:id.
func (h *WebhookHandler) DeleteSubscriptionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Webhook subscription deleted", zap.String("subscriptionID", c.Param("id")))
	utils.Respond(c, http.StatusOK, gin.H{"message": "subscription deleted"})
}

// GetSubscriptionHealthHandler handles GET /api/webhooks/:id/health.
func (h *WebhookHandler) GetSubscriptionHealthHandler(c *gin.Context) {
	sub, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{
		"subscriptionId":    sub.ID,
		"health":            sub.Health,
		"isActive":          sub.IsActive,
		"retryCount":        sub.RetryCount,
		"maxRetries":        sub.MaxRetries,
		"lastSuccessAt":     sub.LastSuccessAt,
		"lastFailureAt":     sub.LastFailureAt,
		"lastFailureReason": sub.LastFailureReason,
		"checkedAt":         time.Now().UTC(),
	})
}

// ReactivateSubscriptionHandler handles POST /api/webhooks/:id/reactivate.
// It re-enables a disabled subscription and zeroes its retry counter; past
// undelivered events are not replayed.
func (h *WebhookHandler) ReactivateSubscriptionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	sub, err := h.Service.Reactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Webhook subscription reactivated", zap.String("subscriptionID", sub.ID))
	utils.Respond(c, http.StatusOK, sub)
}
