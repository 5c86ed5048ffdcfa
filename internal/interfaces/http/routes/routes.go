// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, checkoutService *checkout.Service, cfg *config.Config, logger *logrus.Logger) {
	setupAuthRoutes(rg, db, cfg)
	setupCatalogRoutes(rg, db, cfg)
	setupCartRoutes(rg, redisClient, cfg, logger)
	setupCheckoutRoutes(rg, checkoutService, cfg)
	setupPaymentRoutes(rg, checkoutService)
	setupOrderRoutes(rg, db, cfg)
	setupAdminRoutes(rg, db, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/callback", authHandler.Callback)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

// setupCatalogRoutes sets up product browsing routes
func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db)

	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}
}

// setupCartRoutes sets up cart routes
func setupCartRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(redisClient, logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:productId", cartHandler.UpdateItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveItem)
		cart.POST("/buy-now", cartHandler.SetBuyNow)
		cart.DELETE("/buy-now", cartHandler.ClearBuyNow)
	}
}

// setupCheckoutRoutes sets up checkout routes
func setupCheckoutRoutes(rg *gin.RouterGroup, checkoutService *checkout.Service, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)

	co := rg.Group("/checkout")
	co.Use(middleware.AuthMiddleware(cfg))
	{
		co.GET("/items", checkoutHandler.ResolveItems)
		co.POST("/orders", checkoutHandler.PlaceOrder)
	}
}

// setupPaymentRoutes sets up the gateway redirect route. No auth: the
// redirect from the payment gateway carries no bearer token.
func setupPaymentRoutes(rg *gin.RouterGroup, checkoutService *checkout.Service) {
	paymentHandler := handlers.NewPaymentHandler(checkoutService)

	payments := rg.Group("/payments")
	{
		payments.GET("/complete", paymentHandler.Complete)
	}
}

// setupOrderRoutes sets up order history routes
func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
	}
}

// setupAdminRoutes sets up the back-office routes
func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	adminHandler := handlers.NewAdminHandler(db)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", adminHandler.ListOrders)
		admin.GET("/orders/:id", adminHandler.GetOrder)
		admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
		admin.GET("/stats", adminHandler.GetStats)
	}
}
