package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishal3152/port-api/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithBaseCurrency("EUR").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID                string
	Name              string
	BaseCurrency      string
	TaxResidency      string
	FinancialYearEnd  string
	PerformanceMethod string
	CreatedAt         time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:                MakeID(),
		Name:              MakePortfolioName("Test Portfolio"),
		BaseCurrency:      "USD",
		TaxResidency:      "US",
		FinancialYearEnd:  "12-31",
		PerformanceMethod: "simple",
		CreatedAt:         time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithBaseCurrency sets the base currency.
func (b *PortfolioBuilder) WithBaseCurrency(currency string) *PortfolioBuilder {
	b.BaseCurrency = currency
	return b
}

// WithTaxResidency sets the tax residency.
func (b *PortfolioBuilder) WithTaxResidency(residency string) *PortfolioBuilder {
	b.TaxResidency = residency
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, base_currency, tax_residency, financial_year_end, performance_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.BaseCurrency, b.TaxResidency, b.FinancialYearEnd, b.PerformanceMethod, b.CreatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:                b.ID,
		Name:              b.Name,
		BaseCurrency:      b.BaseCurrency,
		TaxResidency:      b.TaxResidency,
		FinancialYearEnd:  b.FinancialYearEnd,
		PerformanceMethod: b.PerformanceMethod,
		CreatedAt:         b.CreatedAt,
	}
}

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreatePortfolios creates multiple portfolios with unique names.
func CreatePortfolios(t *testing.T, db *sql.DB, count int) []model.Portfolio {
	t.Helper()

	portfolios := make([]model.Portfolio, count)
	for i := 0; i < count; i++ {
		portfolios[i] = NewPortfolio().Build(t, db)
	}
	return portfolios
}

// TransactionBuilder provides a fluent interface for creating ledger entries
// directly in the database, bypassing the projection. Use the transaction
// service instead when the test needs holdings kept in sync.
//
// Example usage:
//
//	txn := testutil.NewLedgerEntry(portfolio.ID).
//	    WithSymbol("AAPL").
//	    WithQuantity("50").
//	    WithPrice("150").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	Symbol      string
	Type        model.TransactionType
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	TotalAmount decimal.Decimal
	Fees        decimal.Decimal
	Currency    string
	Exchange    string
	TradeDate   time.Time
	CreatedAt   time.Time
}

// NewLedgerEntry creates a TransactionBuilder with defaults: a buy of
// 100 units at 10 per unit.
func NewLedgerEntry(portfolioID string) *TransactionBuilder {
	now := time.Now().UTC()
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      "TEST",
		Type:        model.TypeBuy,
		Quantity:    decimal.NewFromInt(100),
		Price:       decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(1000),
		Fees:        decimal.Zero,
		Currency:    "USD",
		Exchange:    "NASDAQ",
		TradeDate:   now.Truncate(24 * time.Hour),
		CreatedAt:   now,
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets the symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType model.TransactionType) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithQuantity sets the quantity from a decimal string.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithPrice sets the per-unit price from a decimal string.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// WithTotalAmount sets the total amount from a decimal string.
func (b *TransactionBuilder) WithTotalAmount(total string) *TransactionBuilder {
	b.TotalAmount = decimal.RequireFromString(total)
	return b
}

// WithFees sets the fees from a decimal string.
func (b *TransactionBuilder) WithFees(fees string) *TransactionBuilder {
	b.Fees = decimal.RequireFromString(fees)
	return b
}

// WithCurrency sets the currency.
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	b.Currency = currency
	return b
}

// WithTradeDate sets the trade date.
func (b *TransactionBuilder) WithTradeDate(date time.Time) *TransactionBuilder {
	b.TradeDate = date
	return b
}

// Model returns the transaction without persisting it. Useful for feeding
// the projection directly.
func (b *TransactionBuilder) Model() model.Transaction {
	return model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		TotalAmount: b.TotalAmount,
		Fees:        b.Fees,
		Currency:    b.Currency,
		Exchange:    b.Exchange,
		TradeDate:   b.TradeDate,
		CreatedAt:   b.CreatedAt,
	}
}

// Build inserts the ledger entry in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, portfolio_id, symbol, type, quantity, price, total_amount, fees, currency, exchange, trade_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.Symbol, string(b.Type),
		b.Quantity.String(), b.Price.String(), b.TotalAmount.String(), b.Fees.String(),
		b.Currency, b.Exchange,
		b.TradeDate.Format("2006-01-02"), b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return b.Model()
}

// HoldingBuilder provides a fluent interface for creating holdings directly,
// without replaying a ledger.
type HoldingBuilder struct {
	ID           string
	PortfolioID  string
	Symbol       string
	CompanyName  string
	Exchange     string
	Currency     string
	Quantity     decimal.Decimal
	AverageCost  decimal.Decimal
	CurrentPrice decimal.NullDecimal
	LastUpdated  time.Time
}

// NewHolding creates a HoldingBuilder with defaults: 100 units at an
// average cost of 10, no current price.
func NewHolding(portfolioID, symbol string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		CompanyName: symbol,
		Exchange:    "NASDAQ",
		Currency:    "USD",
		Quantity:    decimal.NewFromInt(100),
		AverageCost: decimal.NewFromInt(10),
		LastUpdated: time.Now().UTC(),
	}
}

// WithQuantity sets the quantity from a decimal string.
func (b *HoldingBuilder) WithQuantity(quantity string) *HoldingBuilder {
	b.Quantity = decimal.RequireFromString(quantity)
	return b
}

// WithAverageCost sets the average cost from a decimal string.
func (b *HoldingBuilder) WithAverageCost(cost string) *HoldingBuilder {
	b.AverageCost = decimal.RequireFromString(cost)
	return b
}

// WithCurrentPrice sets the current price from a decimal string.
func (b *HoldingBuilder) WithCurrentPrice(price string) *HoldingBuilder {
	b.CurrentPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
	return b
}

// WithCompanyName sets the company name.
func (b *HoldingBuilder) WithCompanyName(name string) *HoldingBuilder {
	b.CompanyName = name
	return b
}

// WithCurrency sets the holding currency.
func (b *HoldingBuilder) WithCurrency(currency string) *HoldingBuilder {
	b.Currency = currency
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	var price interface{}
	if b.CurrentPrice.Valid {
		price = b.CurrentPrice.Decimal.String()
	}

	query := `
		INSERT INTO holding (id, portfolio_id, symbol, company_name, exchange, currency, quantity, average_cost, current_price, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.Symbol, b.CompanyName, b.Exchange, b.Currency,
		b.Quantity.String(), b.AverageCost.String(), price,
		b.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		PortfolioID:  b.PortfolioID,
		Symbol:       b.Symbol,
		CompanyName:  b.CompanyName,
		Exchange:     b.Exchange,
		Currency:     b.Currency,
		Quantity:     b.Quantity,
		AverageCost:  b.AverageCost,
		CurrentPrice: b.CurrentPrice,
		LastUpdated:  b.LastUpdated,
	}
}
