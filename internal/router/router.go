package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zvitly/gradewatch-backend/internal/config"
	"github.com/zvitly/gradewatch-backend/internal/handler"
	"github.com/zvitly/gradewatch-backend/internal/middleware"
	"github.com/zvitly/gradewatch-backend/internal/response"
	"github.com/zvitly/gradewatch-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Webhook   *handler.WebhookHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Webhook (Shared Secret) ────────────────────────────────────
	// The secret check runs before body parsing: a caller without the
	// token learns nothing about the payload contract.
	webhook := router.Group("/webhook")
	webhook.Use(middleware.RequireSharedSecret(cfg.WebhookSecret))
	{
		webhook.POST("/grades", handlers.Webhook.HandleGradeChange)
	}

	// Rate limiter for login (30 requests per minute per IP).
	loginLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 2. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
	}

	// ─── 3. Dashboard Group (Student JWT) ──────────────────────────────
	dashboard := router.Group("/api/v1/dashboard")
	dashboard.Use(middleware.RequireStudentJWT(authService))
	{
		dashboard.GET("/subjects", handlers.Dashboard.ListSubjects)
		dashboard.GET("/grades/:subject", handlers.Dashboard.GetGrades)
	}

	return router
}
