package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dkovalev/skillswap-backend/internal/config"
	"github.com/dkovalev/skillswap-backend/internal/http/handlers"
	"github.com/dkovalev/skillswap-backend/internal/http/middleware"
	"github.com/dkovalev/skillswap-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	serviceHandler *handlers.ServiceHandler,
	transactionHandler *handlers.TransactionHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты: каталог доступен без авторизации
	api.GET("/services", serviceHandler.List)
	api.GET("/services/:id", middleware.UUIDValidator("id"), serviceHandler.Get)
	api.GET("/users/:id", middleware.UUIDValidator("id"), profileHandler.PublicProfile)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Me)
		protected.PUT("/profile", profileHandler.Update)

		protected.GET("/services/mine", serviceHandler.Mine)
		protected.POST("/services", serviceHandler.Create)
		protected.PUT("/services/:id", middleware.UUIDValidator("id"), serviceHandler.Update)
		protected.DELETE("/services/:id", middleware.UUIDValidator("id"), serviceHandler.Delete)

		protected.GET("/transactions", transactionHandler.List)
		protected.POST("/transactions", transactionHandler.Create)
		protected.GET("/transactions/:id", middleware.UUIDValidator("id"), transactionHandler.Get)
		protected.POST("/transactions/:id/respond", middleware.UUIDValidator("id"), transactionHandler.Respond)
		protected.POST("/transactions/:id/confirm", middleware.UUIDValidator("id"), transactionHandler.Confirm)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread/count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return r
}
