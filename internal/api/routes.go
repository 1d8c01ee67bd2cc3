package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardhaven/marketplace/internal/api/handlers"
	"github.com/cardhaven/marketplace/internal/cardindex"
	"github.com/cardhaven/marketplace/internal/pricing"
)

// RouterConfig carries the handler tuning knobs that come from the
// environment.
type RouterConfig struct {
	VendorSellMarginPct float64
}

func SetupRouter(index *cardindex.Service, pipeline *pricing.Pipeline, monitor *pricing.PriceMonitor, cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(index)
	priceHandler := handlers.NewPriceHandler(pipeline, monitor)
	vendorHandler := handlers.NewVendorHandler(pipeline, cfg.VendorSellMarginPct)
	sellerHandler := handlers.NewSellerHandler(pipeline)

	// API routes
	api := router.Group("/api")
	{
		// Card index routes
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/:id", cardHandler.GetCard)
		}

		// Public pricing routes
		prices := api.Group("/prices")
		{
			prices.GET("/check", priceHandler.CheckPrice)
			prices.GET("/status", priceHandler.GetPriceStatus)
			prices.GET("/history", priceHandler.GetPriceHistory)
			prices.GET("/trending", priceHandler.GetTrending)
		}

		// Vendor point-of-sale routes
		vendor := api.Group("/vendor")
		{
			vendor.POST("/buy", vendorHandler.BuyQuote)
			vendor.POST("/sell", vendorHandler.SellQuote)
		}

		// Seller submission routes
		seller := api.Group("/seller")
		{
			seller.POST("/submissions", sellerHandler.QuoteSubmission)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
