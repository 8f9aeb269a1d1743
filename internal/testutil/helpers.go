package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/vishal3152/port-api/internal/projection"
	"github.com/vishal3152/port-api/internal/quotes"
	"github.com/vishal3152/port-api/internal/repository"
	"github.com/vishal3152/port-api/internal/service"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewPortfolioService(
		portfolioRepo,
		holdingRepo,
		transactionRepo,
	)
}

// NewTestTransactionService wires a TransactionService with the default
// close-position oversell policy.
func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return NewTestTransactionServiceWithPolicy(t, db, projection.ClosePosition)
}

func NewTestTransactionServiceWithPolicy(t *testing.T, db *sql.DB, policy projection.OversellPolicy) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	realizedGainRepo := repository.NewRealizedGainRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	return service.NewTransactionService(
		db,
		transactionRepo,
		holdingRepo,
		realizedGainRepo,
		portfolioRepo,
		policy,
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB, prices quotes.PriceProvider, rates quotes.RateProvider, symbols quotes.SymbolProvider) *service.HoldingService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)

	return service.NewHoldingService(holdingRepo, prices, rates, symbols)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Common test constants

var (
	// CommonCurrencies contains frequently used currency codes
	CommonCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "CHF", "AUD"}

	// CommonExchanges contains frequently used stock exchanges
	CommonExchanges = []string{"NASDAQ", "NYSE", "LSE", "TSE", "XETRA", "EURONEXT"}
)

// RandomCurrency returns a random currency from CommonCurrencies.
func RandomCurrency() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return CommonCurrencies[rand.Intn(len(CommonCurrencies))]
}

// RandomExchange returns a random exchange from CommonExchanges.
func RandomExchange() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return CommonExchanges[rand.Intn(len(CommonExchanges))]
}
