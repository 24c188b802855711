package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"orgsnap-api/config"
	"orgsnap-api/controllers"
	"orgsnap-api/middleware"
	"orgsnap-api/repositories"
	"orgsnap-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService, logger *zap.Logger) {
	// Repositories
	friendshipRepo := repositories.NewFriendshipRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	// Services
	activityService := services.NewActivityService(db, logger)
	friendMaker := services.NewFriendMakerService(friendshipRepo, activityService, logger)
	networkService := services.NewNetworkService(db, friendshipRepo, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo, friendshipRepo, logger)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService, logger)
	userController := controllers.NewUserController(db)
	friendController := controllers.NewFriendController(db, friendshipRepo)
	networkController := controllers.NewNetworkController(networkService)
	photoController := controllers.NewPhotoController(db, friendMaker, activityService, logger)
	statusController := controllers.NewStatusController(db, networkService, activityService, logger)
	timelineController := controllers.NewTimelineController(db, friendshipRepo)
	notificationController := controllers.NewNotificationController(db)
	organizationController := controllers.NewOrganizationController(db, analyticsService, activityService, logger)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public, rate limited)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(30, 10))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/send-verification", authController.SendVerification)
		auth.POST("/verify-code", authController.VerifyCode)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/search", userController.SearchUsers)
		}

		// Friend routes
		friends := protected.Group("/friends")
		{
			friends.GET("/", friendController.GetFriends)
			friends.GET("/status/:user_id", friendController.GetFriendshipStatus)
			friends.DELETE("/:id", friendController.RemoveFriend)
		}

		// Network graph
		protected.GET("/network", networkController.GetNetwork)

		// Photo routes
		photos := protected.Group("/photos")
		{
			photos.GET("/", photoController.GetPhotos)
			photos.POST("/", photoController.CreatePhoto)
			photos.DELETE("/:id", photoController.DeletePhoto)
		}

		// Communication status routes
		status := protected.Group("/status")
		{
			status.GET("", statusController.GetMyStatus)
			status.PUT("", statusController.UpdateStatus)
			status.DELETE("", statusController.ClearStatus)
			status.GET("/visible", statusController.GetVisibleStatuses)
		}

		// Timeline
		protected.GET("/timeline", timelineController.GetTimeline)

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("/", notificationController.GetNotifications)
			notifications.PUT("/:id/read", notificationController.MarkRead)
			notifications.PUT("/read-all", notificationController.MarkAllRead)
		}

		// Organization routes
		organizations := protected.Group("/organizations")
		{
			organizations.GET("/", organizationController.GetOrganizations)
			organizations.POST("/", organizationController.CreateOrganization)
			organizations.GET("/:id", organizationController.GetOrganization)
			organizations.PUT("/:id", organizationController.UpdateOrganization)
			organizations.DELETE("/:id", organizationController.DeleteOrganization)
			organizations.POST("/:id/apply", organizationController.Apply)
			organizations.GET("/:id/analytics", organizationController.GetAnalytics)
		}

		// Membership routes
		memberships := protected.Group("/memberships")
		{
			memberships.PUT("/:id", organizationController.UpdateMembership)
			memberships.DELETE("/:id", organizationController.RemoveMembership)
		}
	}
}

// SetupCORS allows the browser clients to talk to the API from any origin.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
