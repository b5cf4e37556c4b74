package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"

	"autoshine/config"
	"autoshine/cron"
	"autoshine/database"
	bookingRepoPkg "autoshine/database/repository/booking"
	catalogRepoPkg "autoshine/database/repository/catalog"
	promoRepoPkg "autoshine/database/repository/promo"
	subscriptionRepoPkg "autoshine/database/repository/subscription"
	"autoshine/handlers"
	"autoshine/routes"
	"autoshine/services/booking"
	"autoshine/services/catalog"
	"autoshine/services/notification"
	"autoshine/services/payment"
	"autoshine/services/pricing"
	"autoshine/services/promo"
	"autoshine/services/subscription"
	"autoshine/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	location, err := time.LoadLocation(config.AppConfig.TimeZone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid TIME_ZONE %q: %v", config.AppConfig.TimeZone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	catRepo := catalogRepoPkg.NewMongoCatalogRepo()
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()
	subRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()
	prRepo := promoRepoPkg.NewMongoPromoRepo()

	for name, ensure := range map[string]func() error{
		"catalog":      catalogRepoPkg.EnsureIndexes,
		"booking":      bookingRepoPkg.EnsureIndexes,
		"subscription": subscriptionRepoPkg.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	if err := catalog.EnsureSeeded(catRepo); err != nil {
		logger.Sugar().Fatalf("main: failed to seed catalog: %v", err)
	}
	if err := promo.EnsureSeeded(prRepo); err != nil {
		logger.Sugar().Fatalf("main: failed to seed promo codes: %v", err)
	}

	// services.
	pricer := pricing.NewEngine(pricing.RulesFromConfig(), catRepo, logger)
	promoValidator := promo.NewDefaultValidator(prRepo, logger)
	catalogService := catalog.NewDefaultCatalogService(catRepo, utils.GetCacheClient(), logger)
	paymentProcessor := payment.NewStripeProcessor(logger)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()
	notifier := notification.NewAsynqNotifier(queueClient, logger)

	bookingService := booking.NewDefaultBookingService(
		bkRepo, catRepo, pricer, promoValidator, paymentProcessor, notifier, logger,
	)
	bookingService.Location = location

	subscriptionService := subscription.NewDefaultSubscriptionService(
		subRepo, bkRepo, catRepo, pricer, notifier, logger,
	)
	subscriptionService.Location = location

	// handlers.
	handlerBundle := &handlers.HandlerBundle{
		Booking:      handlers.NewBookingHandler(bookingService, logger),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService),
		Pricing:      handlers.NewPricingHandler(pricer, promoValidator),
		Catalog:      handlers.NewCatalogHandler(catalogService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers: notification delivery and the due-service sweep.
	go cron.InitNotificationWorker(logger)
	sweeper := cron.StartDueSweep(subscriptionService, logger)
	defer sweeper.Stop()

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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
