package handler

import (
	"database/sql"
	"time"

	"user_service/internal/cache"
	"user_service/internal/config"
	"user_service/internal/health"
	"user_service/internal/middleware"
	"user_service/internal/observability"
	"user_service/internal/queue"
	"user_service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, conn *amqp091.Connection, redisClient *redis.Client, cfg *config.Config, startedAt time.Time) *gin.Engine {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))

	// Central error formatting; controllers leave business and persistence
	// failures on the context instead of writing status codes themselves.
	r.Use(middleware.ErrorHandler(cfg.IsProduction()))

	// Initialize repositories
	userRepo := user.NewUserRepository(db)

	// Initialize collaborators
	userCache := cache.NewUserCache(redisClient)
	publisher := queue.NewEventPublisher(conn)

	// Initialize services
	userService := user.NewUserService(userRepo, userCache, publisher)

	// Initialize controllers
	userController := user.NewUserController(userService)
	healthController := health.NewHealthController(startedAt)

	// Setup routes
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiterMiddleware(redisClient, middleware.DefaultRateLimiterConfig()))
	{
		userController.RegisterRoutes(api)
		healthController.RegisterRoutes(api)
	}

	return r
}
