// File: mendly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mendly/config"
	"mendly/cron"
	"mendly/database"
	bookingRepo "mendly/database/repository/booking"
	resourceRepo "mendly/database/repository/resource"
	storeRepo "mendly/database/repository/store"
	timeslotRepo "mendly/database/repository/timeslot"
	treatmentRepo "mendly/database/repository/treatment"
	userRepo "mendly/database/repository/user"
	webhookRepo "mendly/database/repository/webhook"
	"mendly/handlers"
	"mendly/middleware"
	"mendly/routes"
	"mendly/services/auth"
	"mendly/services/booking"
	"mendly/services/catalog"
	"mendly/services/scheduling"
	"mendly/services/store"
	"mendly/services/webhook"
	"mendly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()
	utils.StartHealthMonitor(database.MongoClient, utils.CacheClient, utils.LockClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	stores := storeRepo.NewMongoStoreRepo()
	users := userRepo.NewMongoUserRepo()
	treatments := treatmentRepo.NewMongoTreatmentRepo()
	resources := resourceRepo.NewMongoResourceRepo()
	slots := timeslotRepo.NewMongoTimeslotRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	subscriptions := webhookRepo.NewMongoWebhookRepo()

	// Event dispatch enqueues one delivery task per matching subscription;
	// the worker below drains the queue in-process.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	dispatcher := webhook.NewAsynqDispatcher(subscriptions, asynqClient)
	locker := utils.NewRedisStoreLocker()

	// services.
	storeService := &store.DefaultStoreService{
		Repo: stores,
	}

	catalogService := &catalog.DefaultCatalogService{
		Stores:     stores,
		Treatments: treatments,
		Resources:  resources,
		Bookings:   bookings,
	}

	schedulingService := &scheduling.DefaultSchedulingService{
		Stores:     stores,
		Slots:      slots,
		Treatments: treatments,
		Users:      users,
		Bookings:   bookings,
		Locker:     locker,
		Events:     dispatcher,
	}

	bookingService := &booking.DefaultBookingService{
		Stores:     stores,
		Users:      users,
		Treatments: treatments,
		Resources:  resources,
		Slots:      slots,
		Bookings:   bookings,
		Locker:     locker,
		Events:     dispatcher,
	}

	authService := &auth.DefaultAuthService{
		Users: users,
	}

	subscriptionService := &webhook.DefaultSubscriptionService{
		Repo: subscriptions,
	}

	worker := cron.NewDeliveryWorker(subscriptions)
	worker.Start()

	// Register routes with the assembled handlers.
	routes.RegisterRoutes(router, &routes.Handlers{
		Auth:         &handlers.AuthHandler{Service: authService},
		Users:        &handlers.UserHandler{Users: users, Auth: authService},
		Stores:       &handlers.StoreHandler{Service: storeService},
		Catalog:      &handlers.CatalogHandler{Service: catalogService},
		Timeslots:    &handlers.TimeslotHandler{Service: schedulingService},
		Availability: &handlers.AvailabilityHandler{Service: schedulingService},
		Bookings:     &handlers.BookingHandler{Service: bookingService},
		Webhooks:     &handlers.WebhookHandler{Service: subscriptionService},
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Sugar().Warnf("main: closing task client: %v", err)
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: closing mongo: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
