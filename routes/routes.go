package routes

import (
	"net/http"
	"time"

	"mendly/handlers"
	"mendly/middleware"
	"mendly/models"
	"mendly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every endpoint group for registration.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Stores       *handlers.StoreHandler
	Catalog      *handlers.CatalogHandler
	Timeslots    *handlers.TimeslotHandler
	Availability *handlers.AvailabilityHandler
	Bookings     *handlers.BookingHandler
	Webhooks     *handlers.WebhookHandler
}

// RegisterAuthRoutes registers login, refresh and registration.
func RegisterAuthRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", h.Auth.LoginHandler)
		api.POST("/refresh", h.Auth.RefreshHandler)
		api.POST("/register", h.Auth.RegisterHandler)
	}

	me := r.Group("/api/users")
	me.Use(middleware.AuthMiddleware())
	me.GET("/me", h.Users.MeHandler)
	me.GET("", middleware.RequireRole(models.RoleSuperAdmin), h.Users.ListUsersHandler)
}

// RegisterStoreRoutes registers the store registry endpoints. Reads are
// public so customers can browse; writes require an authenticated caller and
// the handlers enforce per-store access.
func RegisterStoreRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/stores")
	{
		api.GET("", h.Stores.ListStoresHandler)
		api.GET("/:id", h.Stores.GetStoreHandler)
		api.GET("/:id/hours", h.Stores.GetStoreHoursHandler)
		api.GET("/:id/treatments", h.Catalog.ListTreatmentsHandler)
		api.GET("/:id/resources", h.Catalog.ListResourcesHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.POST("", middleware.RequireRole(models.RoleSuperAdmin), h.Stores.CreateStoreHandler)
		protected.PUT("/:id", h.Stores.UpdateStoreHandler)
		protected.PUT("/:id/settings", h.Stores.UpdateStoreSettingsHandler)
		protected.PUT("/:id/active", h.Stores.SetStoreActiveHandler)
		protected.GET("/:id/staff", h.Users.ListStoreStaffHandler)
		protected.POST("/:id/staff", h.Users.CreateStaffHandler)

		// Timeslot management is store-scoped, so it lives under /stores.
		protected.POST("/:id/timeslots/generate", h.Timeslots.GenerateSlotsHandler)
		protected.POST("/:id/timeslots/generate-range", h.Timeslots.GenerateRangeHandler)
		protected.GET("/:id/timeslots", h.Timeslots.ListSlotsHandler)
	}
}

// RegisterCatalogRoutes registers treatment and resource endpoints.
func RegisterCatalogRoutes(r *gin.Engine, h *Handlers) {
	treatments := r.Group("/api/treatments")
	{
		treatments.GET("/:id", h.Catalog.GetTreatmentHandler)

		protected := treatments.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleStoreAdmin))
		protected.POST("", h.Catalog.CreateTreatmentHandler)
		protected.PUT("/:id", h.Catalog.UpdateTreatmentHandler)
		protected.DELETE("/:id", h.Catalog.DeactivateTreatmentHandler)
	}

	resources := r.Group("/api/resources")
	{
		resources.GET("/:id", h.Catalog.GetResourceHandler)

		protected := resources.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleStoreAdmin))
		protected.POST("", h.Catalog.CreateResourceHandler)
		protected.PUT("/:id", h.Catalog.UpdateResourceHandler)
	}
}

// RegisterAvailabilityRoutes registers the public availability lookup.
func RegisterAvailabilityRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/api/availability/slots", h.Availability.GetAvailabilityHandler)
}

// RegisterBookingRoutes sets up the reservation endpoints. Everything here
// needs an authenticated caller; per-booking access rules live in the
// handlers.
func RegisterBookingRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("", h.Bookings.CreateBookingHandler)
		api.GET("", h.Bookings.ListBookingsHandler)
		api.GET("/:id", h.Bookings.GetBookingHandler)
		api.PUT("/:id", h.Bookings.UpdateBookingHandler)
		api.POST("/:id/cancel", h.Bookings.CancelBookingHandler)
		api.POST("/:id/confirm", h.Bookings.ConfirmBookingHandler)
		api.POST("/:id/start", h.Bookings.StartBookingHandler)
		api.POST("/:id/complete", h.Bookings.CompleteBookingHandler)
		api.POST("/:id/no-show", h.Bookings.NoShowBookingHandler)
	}
}

// RegisterWebhookRoutes sets up subscription management, super_admin only.
func RegisterWebhookRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/webhooks")
	api.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleSuperAdmin))
	{
		api.POST("", h.Webhooks.CreateSubscriptionHandler)
		api.GET("", h.Webhooks.ListSubscriptionsHandler)
		api.GET("/:id", h.Webhooks.GetSubscriptionHandler)
		api.PUT("/:id", h.Webhooks.UpdateSubscriptionHandler)
		api.DELETE("/:id", h.Webhooks.DeleteSubscriptionHandler)
		api.GET("/:id/health", h.Webhooks.GetSubscriptionHealthHandler)
		api.POST("/:id/reactivate", h.Webhooks.ReactivateSubscriptionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": utils.GetSystemHealth()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, h)
	RegisterStoreRoutes(r, h)
	RegisterCatalogRoutes(r, h)
	RegisterAvailabilityRoutes(r, h)
	RegisterBookingRoutes(r, h)
	RegisterWebhookRoutes(r, h)
	RegisterHealthRoute(r)
}
