package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edustore/storefront/internal/api/handlers"
	"github.com/edustore/storefront/internal/api/middleware"
	"github.com/edustore/storefront/internal/config"
	"github.com/edustore/storefront/internal/session"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, sessions *session.Manager, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.SessionMiddleware(sessions, logger))
	{
		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", handlers.HandleGetCart(logger))
			cartRoutes.DELETE("", handlers.HandleClearCart(logger))
			cartRoutes.POST("/items", handlers.HandleAddItem(logger))
			cartRoutes.PATCH("/items/:id", handlers.HandleUpdateQuantity(logger))
			cartRoutes.DELETE("/items/:id", handlers.HandleRemoveItem(logger))
			cartRoutes.POST("/open", handlers.HandleSetOpen(logger))
			cartRoutes.POST("/toggle", handlers.HandleToggleOpen(logger))
		}

		checkoutRoutes := v1.Group("/checkout")
		{
			checkoutRoutes.POST("/customer", handlers.HandleSubmitCustomer(logger))
			checkoutRoutes.POST("/payment", handlers.HandleSubmitPayment(logger))
			checkoutRoutes.GET("/result", handlers.HandleCheckoutResult(logger))
			checkoutRoutes.GET("/status", handlers.HandleCheckoutStatus(logger))
			checkoutRoutes.GET("/installments", handlers.HandleInstallments(logger))
			checkoutRoutes.DELETE("", handlers.HandleCloseCheckout(logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
