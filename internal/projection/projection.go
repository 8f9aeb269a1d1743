// Package projection maintains the holdings projection: the materialized,
// per-(portfolio, symbol) position derived from the ordered buy/sell ledger.
// It is pure: it never touches storage, clocks, or ID generation, so a
// ledger replayed from empty always produces the same holdings.
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/model"
)

// OversellPolicy controls what happens when a sell exceeds the held quantity.
type OversellPolicy string

const (
	// ClosePosition deletes the holding and ignores the excess quantity.
	// This mirrors the original system's behavior; the realized gain is
	// computed over the held quantity only.
	ClosePosition OversellPolicy = "close"

	// RejectOversell fails the transaction with ErrOversell and leaves the
	// holding untouched.
	RejectOversell OversellPolicy = "reject"
)

// ParseOversellPolicy maps a config string onto a policy, defaulting to
// ClosePosition for unrecognized values.
func ParseOversellPolicy(s string) OversellPolicy {
	if s == string(RejectOversell) {
		return RejectOversell
	}
	return ClosePosition
}

// Outcome describes how Apply changed the holdings projection.
type Outcome int

const (
	// OutcomeNone means the entry was ledger-only; the holding is untouched.
	OutcomeNone Outcome = iota
	// OutcomeCreated means a new holding was opened.
	OutcomeCreated
	// OutcomeUpdated means the existing holding's quantity or cost changed.
	OutcomeUpdated
	// OutcomeClosed means the holding was driven to zero and must be deleted.
	OutcomeClosed
)

// Result carries the effect of applying one transaction.
// Holding is populated for OutcomeCreated and OutcomeUpdated. Realized is
// populated for every sell, with ID and CreatedAt left for the caller to
// assign.
type Result struct {
	Outcome  Outcome
	Holding  model.Holding
	Realized *model.RealizedGain
}

// Apply computes the effect of one transaction on the holding for its
// (portfolio, symbol) pair. existing is nil when no holding exists yet.
//
// Buys use the weighted-average cost method: the new average cost is
// (held·avgCost + bought·price) / (held + bought). Sells reduce quantity
// and leave the average cost unchanged; a sell of the full position (or
// more, under ClosePosition) closes it. Transaction types other than buy
// and sell are explicit no-ops.
//
// Apply validates before computing anything, so a rejected transaction
// never produces a partial result.
func Apply(existing *model.Holding, txn model.Transaction, policy OversellPolicy) (Result, error) {
	if !txn.Quantity.IsPositive() {
		return Result{}, fmt.Errorf("%w: quantity must be positive, got %s", apperrors.ErrInvalidTransaction, txn.Quantity)
	}
	if txn.Price.IsNegative() {
		return Result{}, fmt.Errorf("%w: price cannot be negative, got %s", apperrors.ErrInvalidTransaction, txn.Price)
	}

	switch txn.Type {
	case model.TypeBuy:
		return applyBuy(existing, txn)
	case model.TypeSell:
		return applySell(existing, txn, policy)
	default:
		// Dividends, splits, bonuses and the other corporate-action types
		// live in the ledger only. No projection rules are defined for them
		// yet, so the holding stays as it is.
		return Result{Outcome: OutcomeNone}, nil
	}
}

func applyBuy(existing *model.Holding, txn model.Transaction) (Result, error) {
	if existing == nil {
		return Result{
			Outcome: OutcomeCreated,
			Holding: model.Holding{
				PortfolioID: txn.PortfolioID,
				Symbol:      txn.Symbol,
				// Enriched later by the symbol metadata provider.
				CompanyName: txn.Symbol,
				Exchange:    txn.Exchange,
				Currency:    txn.Currency,
				Quantity:    txn.Quantity,
				AverageCost: txn.Price,
			},
		}, nil
	}

	// Weighted-average cost basis. newQuantity > 0 because both operands
	// are positive, so the division is safe.
	newQuantity := existing.Quantity.Add(txn.Quantity)
	heldCost := existing.Quantity.Mul(existing.AverageCost)
	boughtCost := txn.Quantity.Mul(txn.Price)
	newAverageCost := heldCost.Add(boughtCost).Div(newQuantity)

	updated := *existing
	updated.Quantity = newQuantity
	updated.AverageCost = newAverageCost
	return Result{Outcome: OutcomeUpdated, Holding: updated}, nil
}

func applySell(existing *model.Holding, txn model.Transaction, policy OversellPolicy) (Result, error) {
	if existing == nil {
		return Result{}, fmt.Errorf("%w: no holding for %s in portfolio %s", apperrors.ErrHoldingNotFound, txn.Symbol, txn.PortfolioID)
	}

	newQuantity := existing.Quantity.Sub(txn.Quantity)
	if newQuantity.IsNegative() && policy == RejectOversell {
		return Result{}, fmt.Errorf("%w: held %s, sell %s", apperrors.ErrOversell, existing.Quantity, txn.Quantity)
	}

	// Under ClosePosition the excess is ignored: the realized quantity is
	// capped at what was actually held.
	soldQuantity := txn.Quantity
	if soldQuantity.GreaterThan(existing.Quantity) {
		soldQuantity = existing.Quantity
	}
	realized := &model.RealizedGain{
		PortfolioID:   txn.PortfolioID,
		TransactionID: txn.ID,
		Symbol:        txn.Symbol,
		Quantity:      soldQuantity,
		Proceeds:      soldQuantity.Mul(txn.Price),
		CostBasis:     soldQuantity.Mul(existing.AverageCost),
		TradeDate:     txn.TradeDate,
	}
	realized.Gain = realized.Proceeds.Sub(realized.CostBasis)

	if !newQuantity.IsPositive() {
		return Result{Outcome: OutcomeClosed, Realized: realized}, nil
	}

	updated := *existing
	updated.Quantity = newQuantity
	return Result{Outcome: OutcomeUpdated, Holding: updated, Realized: realized}, nil
}

// Replay applies a transaction sequence to an empty projection and returns
// the resulting holdings keyed by symbol. Entries that fail to apply abort
// the replay. Used for consistency checks and tests; the live system applies
// entries one at a time as they arrive.
func Replay(txns []model.Transaction, policy OversellPolicy) (map[string]model.Holding, error) {
	holdings := make(map[string]model.Holding)
	for _, txn := range txns {
		var existing *model.Holding
		if h, ok := holdings[txn.Symbol]; ok {
			existing = &h
		}
		result, err := Apply(existing, txn, policy)
		if err != nil {
			return nil, err
		}
		switch result.Outcome {
		case OutcomeCreated, OutcomeUpdated:
			holdings[txn.Symbol] = result.Holding
		case OutcomeClosed:
			delete(holdings, txn.Symbol)
		}
	}
	return holdings, nil
}

// CostBasis returns quantity x averageCost for a holding.
func CostBasis(h model.Holding) decimal.Decimal {
	return h.Quantity.Mul(h.AverageCost)
}
