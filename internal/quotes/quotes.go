// Package quotes supplies current prices, FX rates, and symbol metadata from
// an external financial-data provider. The rest of the system consumes the
// three interfaces below; fetching, caching, and staleness policy all live
// here so metrics and projection code never block on I/O.
package quotes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price for one symbol, in the symbol's own currency.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	AsOf     time.Time       `json:"asOf"`
}

// SymbolInfo is display metadata for one instrument.
type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
	Exchange    string `json:"exchange"`
	Currency    string `json:"currency"`
}

// PriceProvider returns the latest price for a symbol.
type PriceProvider interface {
	CurrentPrice(ctx context.Context, symbol string) (Quote, error)
}

// RateProvider converts between currencies.
// Rate returns how many 'to' units per 1 'from' unit.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, time.Time, error)
}

// SymbolProvider looks up instrument metadata for display enrichment.
// Not required for metrics correctness, only for company names in the UI.
type SymbolProvider interface {
	LookupSymbol(ctx context.Context, symbol string) (SymbolInfo, error)
}
