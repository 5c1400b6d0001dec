package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medlens/medlens/constants"
)

// Options tunes the router without dragging the whole config in.
type Options struct {
	CORSOrigin   string
	MaxBodyBytes int64

	// Health, when set, is consulted by the health endpoint. A nil func
	// reports OK unconditionally.
	Health func(ctx context.Context) error
}

// SetupRouter wires middleware, handlers, and API routes.
func SetupRouter(reportSvc ReportService, chatSvc ChatService, authSvc AuthService, uploads *UploadStore, opts Options, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware(opts.CORSOrigin))
	router.Use(MaxBodySize(opts.MaxBodyBytes))

	reportHandler := NewReportHandler(reportSvc, uploads, logger)
	chatHandler := NewChatHandler(chatSvc, logger)
	authHandler := NewAuthHandler(authSvc, logger)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Welcome to MedLens API",
			"endpoints": []string{"/api/auth", "/api/reports", "/api/chat", "/api/prescription", "/api/health", "/api/languages"},
		})
	})
	router.GET("/api/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				logger.Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "timestamp": time.Now().UTC()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
	})
	router.GET("/api/languages", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"default":   constants.DefaultLanguage,
			"languages": constants.SupportedLanguages,
		})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Report and chat routes accept anonymous callers too.
		protected := api.Group("")
		protected.Use(OptionalAuth(authSvc))
		{
			protected.POST("/reports/analyze", reportHandler.Analyze)
			protected.POST("/reports/translate/:reportId", reportHandler.Translate)
			protected.GET("/reports/:reportId", reportHandler.Get)
			protected.GET("/reports", reportHandler.List)
			protected.DELETE("/reports/:reportId", reportHandler.Delete)

			protected.POST("/prescription/analyze", reportHandler.AnalyzePrescription)

			protected.POST("/chat/query", chatHandler.Query)
		}
	}

	return router
}
