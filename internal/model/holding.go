package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the materialized projection of the buy/sell ledger entries for
// one (portfolio, symbol) pair. At most one holding exists per pair, and a
// holding with quantity <= 0 never exists: the projection deletes it instead.
//
// CurrentPrice is absent until the quote provider has delivered a price for
// the symbol. Metrics treat an absent price as zero value.
type Holding struct {
	ID           string              `json:"id"`
	PortfolioID  string              `json:"portfolioId"`
	Symbol       string              `json:"symbol"`
	CompanyName  string              `json:"companyName"`
	Exchange     string              `json:"exchange"`
	Currency     string              `json:"currency"`
	Quantity     decimal.Decimal     `json:"quantity"`
	AverageCost  decimal.Decimal     `json:"averageCost"`
	CurrentPrice decimal.NullDecimal `json:"currentPrice"`
	LastUpdated  time.Time           `json:"lastUpdated"`
}

// PriceOrZero returns the holding's current price, or zero when no price
// has been recorded yet.
func (h Holding) PriceOrZero() decimal.Decimal {
	if h.CurrentPrice.Valid {
		return h.CurrentPrice.Decimal
	}
	return decimal.Zero
}
