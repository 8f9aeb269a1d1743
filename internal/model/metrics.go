package model

import "github.com/shopspring/decimal"

// HoldingMetrics contains the derived valuation figures for a single holding.
// All values are computed on read; nothing here is stored.
type HoldingMetrics struct {
	CurrentValue     decimal.Decimal `json:"currentValue"`
	TotalGain        decimal.Decimal `json:"totalGain"`
	TotalGainPercent decimal.Decimal `json:"totalGainPercent"`
}

// HoldingWithMetrics pairs a holding with its derived metrics for API responses.
type HoldingWithMetrics struct {
	Holding
	HoldingMetrics
}

// PortfolioMetrics aggregates valuation figures across every holding of a
// portfolio. TotalGainPercent and DividendYield are zero when their
// denominators are zero, never an error or NaN.
type PortfolioMetrics struct {
	PortfolioID      string          `json:"portfolioId"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalGain        decimal.Decimal `json:"totalGain"`
	TotalGainPercent decimal.Decimal `json:"totalGainPercent"`
	DividendYield    decimal.Decimal `json:"dividendYield"`
	HoldingsCount    int             `json:"holdingsCount"`
}
