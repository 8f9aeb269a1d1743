package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that no holding exists for the requested
	// (portfolio, symbol) pair. A sell against a missing holding is rejected
	// with this error rather than treated as a silent no-op.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrQuoteNotFound indicates that the quote provider returned no usable
	// price for a symbol.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrRateNotFound indicates that no exchange rate is available for a currency pair.
	ErrRateNotFound = errors.New("exchange rate not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTransaction indicates a transaction that violates ledger
	// constraints (non-positive quantity, negative price or fees). The
	// operation is rejected with no state mutation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrOversell indicates that a sell transaction exceeds the held quantity
	// and the oversell policy is set to reject. The holding is left untouched.
	ErrOversell = errors.New("sell exceeds held quantity")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrievePortfolios   = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveGains        = errors.New("failed to retrieve realized gains")
	ErrFailedToComputeMetrics       = errors.New("failed to compute portfolio metrics")
	ErrFailedToRetrieveQuote        = errors.New("failed to retrieve quote")
)
