package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cardhaven/marketplace/internal/api"
	"github.com/cardhaven/marketplace/internal/cardindex"
	"github.com/cardhaven/marketplace/internal/database"
	"github.com/cardhaven/marketplace/internal/metrics"
	"github.com/cardhaven/marketplace/internal/pricing"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./marketplace.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Card index over the locally imported card data
	index, err := cardindex.NewService(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to initialize card index: %v", err)
	}
	log.Printf("Card index ready: %d cards across %d sets", index.CardCount(), index.SetCount())
	metrics.CardIndexSize.Set(float64(index.CardCount()))

	// Shared daily quota for all external pricing calls
	dailyLimit := pricing.DefaultDailyCallLimit
	if limitStr := os.Getenv("PRICING_DAILY_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			dailyLimit = limit
		}
	}
	quota := pricing.NewQuotaGuard(dailyLimit)

	// External API clients
	catalogURL := os.Getenv("CATALOG_API_URL")
	if catalogURL == "" {
		catalogURL = "https://api.cardcatalog.example.com/v1"
	}
	marketURL := os.Getenv("MARKET_API_URL")
	if marketURL == "" {
		marketURL = "https://api.cardmarketdata.example.com/v1"
	}
	catalog := pricing.NewCatalogClient(catalogURL, os.Getenv("CATALOG_API_KEY"), quota)
	market := pricing.NewMarketDataClient(marketURL, os.Getenv("MARKET_API_KEY"), quota)

	// Resolution and pricing pipeline
	resolver := pricing.NewProductResolver(database.GetDB(), catalog)
	history := pricing.NewHistoryRecorder(database.GetDB())
	pipeline := pricing.NewPipeline(index, resolver, market, history, quota)

	// Background monitor refreshing prices for tracked cards
	monitor := pricing.NewPriceMonitor(pipeline, quota)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start price monitor in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in price monitor: %v - restarting in 30 seconds", r)
					}
				}()
				monitor.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Price monitor restarting after panic recovery...")
			}
		}
	}()

	// Vendor sell margin over market price
	sellMargin := 5.0
	if marginStr := os.Getenv("VENDOR_SELL_MARGIN_PCT"); marginStr != "" {
		if margin, err := strconv.ParseFloat(marginStr, 64); err == nil {
			sellMargin = margin
		}
	}

	// Setup router
	router := api.SetupRouter(index, pipeline, monitor, api.RouterConfig{
		VendorSellMarginPct: sellMargin,
	})

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the price monitor
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
