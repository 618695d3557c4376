package router

import (
	"net/http"
	"time"

	"github.com/finlitportal/finlit-backend/internal/config"
	"github.com/finlitportal/finlit-backend/internal/handler"
	"github.com/finlitportal/finlit-backend/internal/middleware"
	"github.com/finlitportal/finlit-backend/internal/response"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Test   *handler.TestHandler
	User   *handler.UserHandler
	Result *handler.ResultHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for account routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Test catalog and session routes. The catalog is public; Start carries
	// OptionalAuth so the level gate can tell anonymous callers apart.
	tests := router.Group("/api/v1/tests")
	{
		tests.GET("", middleware.CacheControl(60), handlers.Test.List)
		tests.GET("/categories", middleware.CacheControl(300), handlers.Test.Categories)

		tests.POST("/:test_id/start", middleware.OptionalAuth(authService), handlers.Test.Start)
		tests.POST("/:test_id/answer", handlers.Test.Answer)
		tests.POST("/:test_id/submit", handlers.Test.Submit)

		tests.POST("/save-result", middleware.RequireAuth(authService), handlers.Result.Save)
		tests.GET("/results", middleware.RequireAuth(authService), handlers.Result.List)
	}

	// Account routes.
	users := router.Group("/api/v1/users")
	{
		users.POST("/register", authLimiter.Middleware(), handlers.User.Register)
		users.POST("/login", authLimiter.Middleware(), handlers.User.Login)
		users.POST("/refresh", authLimiter.Middleware(), handlers.User.Refresh)
		users.POST("/logout", handlers.User.Logout)

		users.GET("/me", middleware.RequireAuth(authService), handlers.User.Me)
		users.GET("/cabinet", middleware.RequireAuth(authService), handlers.User.Cabinet)
	}

	return router
}
