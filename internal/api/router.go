package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vishal3152/port-api/internal/api/handlers"
	custommiddleware "github.com/vishal3152/port-api/internal/api/middleware"
	"github.com/vishal3152/port-api/internal/config"
	"github.com/vishal3152/port-api/internal/quotes"
	"github.com/vishal3152/port-api/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	portfolioService *service.PortfolioService,
	transactionService *service.TransactionService,
	priceProvider quotes.PriceProvider,
	rateProvider quotes.RateProvider,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
		transactionHandler := handlers.NewTransactionHandler(transactionService)

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Put("/", portfolioHandler.UpdatePortfolio)
				r.Delete("/", portfolioHandler.DeletePortfolio)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Get("/metrics", portfolioHandler.Metrics)
				r.Get("/transactions", transactionHandler.TransactionsPerPortfolio)
				r.Get("/realized-gains", transactionHandler.RealizedGainsPerPortfolio)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
			})
		})

		quoteHandler := handlers.NewQuoteHandler(priceProvider, rateProvider)
		r.Route("/quote", func(r chi.Router) {
			r.Get("/{symbol}", quoteHandler.GetQuote)
		})

		r.Route("/rate", func(r chi.Router) {
			r.Get("/{from}/{to}", quoteHandler.GetRate)
		})
	})

	return r
}
