package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishal3152/port-api/internal/api"
	"github.com/vishal3152/port-api/internal/config"
	"github.com/vishal3152/port-api/internal/database"
	"github.com/vishal3152/port-api/internal/projection"
	"github.com/vishal3152/port-api/internal/quotes"
	"github.com/vishal3152/port-api/internal/repository"
	"github.com/vishal3152/port-api/internal/scheduler"
	"github.com/vishal3152/port-api/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and run migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	realizedGainRepo := repository.NewRealizedGainRepository(db)

	// Quote provider with freshness-windowed caching
	client := quotes.NewClient(cfg.Quotes.APIKey)
	provider := quotes.NewCachedProvider(client, client, client, cfg.Quotes.PriceFreshness, cfg.Quotes.RateFreshness)

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(
		db,
		transactionRepo,
		holdingRepo,
		realizedGainRepo,
		portfolioRepo,
		projection.ParseOversellPolicy(cfg.Ledger.OversellPolicy),
	)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		holdingRepo,
		transactionRepo,
	)
	holdingService := service.NewHoldingService(holdingRepo, provider, provider, provider)

	// Background price refresh
	refresher := scheduler.New(holdingService, cfg.Quotes.RefreshSchedule)
	if err := refresher.Start(); err != nil {
		log.Fatalf("Failed to start price refresher: %v", err)
	}
	defer refresher.Stop()

	// Create router
	router := api.NewRouter(systemService, portfolioService, transactionService, provider, provider, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
