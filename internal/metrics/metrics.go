// Package metrics derives display valuations from the holdings projection
// and the transaction ledger. Every function here is pure and side-effect
// free: holdings are never mutated, and zero denominators always yield
// zero percentages rather than errors or NaN.
package metrics

import (
	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ForHolding computes the valuation metrics for a single holding at the
// given current price. Callers pass decimal.Zero when no price is known;
// a missing quote reads as a worthless position on screen, not an error.
func ForHolding(h model.Holding, currentPrice decimal.Decimal) model.HoldingMetrics {
	currentValue := currentPrice.Mul(h.Quantity)
	costBasis := h.AverageCost.Mul(h.Quantity)
	totalGain := currentValue.Sub(costBasis)

	return model.HoldingMetrics{
		CurrentValue:     currentValue,
		TotalGain:        totalGain,
		TotalGainPercent: percentOf(totalGain, costBasis),
	}
}

// ForPortfolio aggregates metrics across all holdings of one portfolio.
// The transaction slice supplies the dividend ledger entries used for the
// dividend yield; all other entries are ignored here.
//
// An empty portfolio returns all-zero metrics with no division errors.
func ForPortfolio(portfolioID string, holdings []model.Holding, txns []model.Transaction) model.PortfolioMetrics {
	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for _, h := range holdings {
		totalValue = totalValue.Add(h.PriceOrZero().Mul(h.Quantity))
		totalCost = totalCost.Add(h.AverageCost.Mul(h.Quantity))
	}

	totalDividends := decimal.Zero
	for _, txn := range txns {
		if txn.Type == model.TypeDividend {
			totalDividends = totalDividends.Add(txn.TotalAmount)
		}
	}

	totalGain := totalValue.Sub(totalCost)

	return model.PortfolioMetrics{
		PortfolioID:      portfolioID,
		TotalValue:       totalValue,
		TotalCost:        totalCost,
		TotalGain:        totalGain,
		TotalGainPercent: percentOf(totalGain, totalCost),
		DividendYield:    percentOf(totalDividends, totalValue),
		HoldingsCount:    len(holdings),
	}
}

// percentOf returns part/whole x 100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
