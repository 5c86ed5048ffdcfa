// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/profile"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/infrastructure/messaging/rabbitmq"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/email"
)

func main() {
	logger := logrus.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting application")

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := db.Health(); err != nil {
		logger.Fatalf("Database health check failed: %v", err)
	}
	if err := redisClient.Health(); err != nil {
		logger.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		logger.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		logger.Warnf("Index creation failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logger.Warnf("Data seeding failed: %v", err)
		}
		migration.GetTableInfo()
	}

	// Message broker is optional; without it order events are dropped
	var broker *rabbitmq.Client
	if cfg.Broker.URL != "" {
		broker, err = rabbitmq.NewClient(cfg.Broker.URL)
		if err != nil {
			logger.Warnf("Message broker unavailable, order events disabled: %v", err)
		} else {
			defer broker.Close()
		}
	}

	// Establish the payment gateway session before serving checkout
	gateway := payment.NewPortOneClient(cfg, logger)
	if err := gateway.Initialize(); err != nil {
		logger.Warnf("Payment gateway initialization failed, checkout disabled until restart: %v", err)
	}

	var events checkout.EventPublisher
	if broker != nil {
		events = broker
	}

	cartStore := cart.NewStore(redisClient.GetClient(), logger)
	orderRepo := order.NewRepository(db.GetDB())
	profileService := profile.NewService(db.GetDB())

	// Mail is optional too; without SMTP the buyer just gets no email
	var mailer checkout.Mailer
	if cfg.External.Email.SMTPHost != "" {
		mailer = email.NewEmailService(cfg)
	}

	checkoutService := checkout.NewService(
		cartStore,
		orderRepo,
		profileService,
		gateway,
		events,
		mailer,
		cfg,
		logger,
	)

	// Background sweep: stale pending orders become abandoned
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeper := checkout.NewSweeper(orderRepo, events, cfg.Checkout.AbandonAfter, cfg.Checkout.SweepInterval, logger)
	go sweeper.Run(sweepCtx)

	logger.Info("All systems operational")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), checkoutService, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("Server shutdown completed")
}
