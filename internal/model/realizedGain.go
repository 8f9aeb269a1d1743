package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RealizedGain records the profit or loss locked in by a single sell
// transaction: proceeds at the transaction price minus the average-cost
// basis of the sold quantity. Records are written alongside the sell and
// never recomputed.
type RealizedGain struct {
	ID            string          `json:"id"`
	PortfolioID   string          `json:"portfolioId"`
	TransactionID string          `json:"transactionId"`
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	Gain          decimal.Decimal `json:"gain"`
	TradeDate     time.Time       `json:"tradeDate"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}
