package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates the ledger entry variants. Only TypeBuy and
// TypeSell carry holding-projection semantics; the remaining variants are
// recorded in the ledger and left untouched by the projection until
// corporate-action rules are defined for them.
type TransactionType string

// Allowed transaction types.
const (
	TypeBuy             TransactionType = "buy"
	TypeSell            TransactionType = "sell"
	TypeDividend        TransactionType = "dividend"
	TypeSplit           TransactionType = "split"
	TypeBonus           TransactionType = "bonus"
	TypeOpeningBalance  TransactionType = "opening-balance"
	TypeConsolidation   TransactionType = "consolidation"
	TypeCancellation    TransactionType = "cancellation"
	TypeDemerger        TransactionType = "demerger"
	TypeReturnOfCapital TransactionType = "return-of-capital"
)

// Transaction represents one append-only ledger entry for a portfolio.
// Entries are never mutated or deleted once written.
//
// TotalAmount is advisory: it is stored as supplied by the caller
// (quantity x price + fees at entry time) and never re-derived.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Symbol      string          `json:"symbol"`
	Type        TransactionType `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Fees        decimal.Decimal `json:"fees"`
	Currency    string          `json:"currency"`
	Exchange    string          `json:"exchange"`
	TradeDate   time.Time       `json:"tradeDate"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
