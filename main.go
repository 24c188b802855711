package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orgsnap-api/config"
	"orgsnap-api/database"
	"orgsnap-api/jobs"
	"orgsnap-api/middleware"
	"orgsnap-api/routes"
	"orgsnap-api/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		logger.Warn("failed to seed database", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	emailService := services.NewEmailService(cfg, logger)

	// Expired statuses are swept in the background so visibility queries
	// stay cheap.
	cleanupJob := jobs.NewStatusCleanupJob(db, 10*time.Minute, logger)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService, logger)

	logger.Info("starting OrgSnap API server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
