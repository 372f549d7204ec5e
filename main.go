// File: meytle/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meytle/config"
	"meytle/cron"
	"meytle/database"
	availabilityRepo "meytle/database/repository/availability"
	bookingRepo "meytle/database/repository/booking"
	catalogRepo "meytle/database/repository/catalog"
	"meytle/handlers"
	"meytle/middleware"
	"meytle/routes"
	"meytle/services/availability"
	"meytle/services/catalog"
	"meytle/services/wizard"
	"meytle/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	weekly := availabilityRepo.NewMongoAvailabilityRepo()
	categories := catalogRepo.NewMongoCatalogRepo()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:     weekly,
		Bookings: bookings,
	}
	catalogService := &catalog.DefaultCatalogService{
		Repo: categories,
	}
	completionScheduler := cron.NewCompletionScheduler()
	gateway := &wizard.RepoBookingGateway{
		Repo:      bookings,
		Completer: completionScheduler,
	}

	rules := wizard.Rules{
		MinHours:    config.AppConfig.MinBookingHours,
		MaxHours:    config.AppConfig.MaxBookingHours,
		ServiceStep: config.AppConfig.ServiceStep,
	}
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	wizardService := wizard.NewWizardService(
		rules,
		config.AppConfig.PlatformFeePct,
		config.AppConfig.Currency,
		sessionTTL,
		utils.GetSessionCacheClient(),
		gateway,
		availabilityService,
		catalogService,
	)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Wizard:       handlers.NewWizardHandler(wizardService, logger),
		Availability: handlers.NewAvailabilityHandler(availabilityService, logger),
		Catalog:      handlers.NewCatalogHandler(catalogService, logger),
		Booking:      handlers.NewBookingHandler(bookings, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetSessionCacheClient(), utils.GetCompletionQueueClient(), database.MongoClient)

	// Background worker that flips bookings to completed at their end time.
	go cron.InitCompletionWorker(bookings)

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

	logger.Sugar().Info("main: server stopped gracefully")
}
