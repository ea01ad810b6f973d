package api

import (
	"net/http"
	"time"

	"github.com/bilingual-blog-api/internal/auth"
	"github.com/bilingual-blog-api/internal/config"
	"github.com/bilingual-blog-api/internal/models"
	"github.com/bilingual-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, tokens *auth.TokenManager, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))
	router.Use(auth.Middleware(tokens, cfg.Auth.CookieName))

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	authHandler := NewAuthHandler(services, tokens, cfg, log)
	authorHandler := NewAuthorHandler(services, log)
	readingListHandler := NewReadingListHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services, log))

	requireAuth := auth.RequireAuth()
	requireWriter := auth.RequireRole(models.RoleAdmin, models.RoleAuthor)

	api := router.Group("/api")
	{
		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:slug", articleHandler.Get)
			articles.GET("/:slug/stats", articleHandler.Stats)
			articles.POST("/:slug/view", articleHandler.View)
			articles.POST("/:slug/like", requireAuth, articleHandler.Like)
		}

		authors := api.Group("/authors")
		{
			authors.GET("", authorHandler.List)
			authors.GET("/:id", authorHandler.Get)
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		readingList := api.Group("/readinglist", requireAuth)
		{
			readingList.GET("", readingListHandler.List)
			readingList.POST("/:slug", readingListHandler.Toggle)
		}

		admin := api.Group("/admin", requireWriter)
		{
			admin.POST("/articles", articleHandler.Create)
			admin.PUT("/articles/:slug", articleHandler.Update)
			admin.DELETE("/articles/:slug", articleHandler.Delete)
		}

		api.POST("/upload", requireWriter, uploadHandler.UploadCover)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "bilingual-blog-api",
	})
}

// metricsHandler returns site-wide counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := services.Stats.Totals(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"store":     totals,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS. Credentials are only allowed for an explicit origin.
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
