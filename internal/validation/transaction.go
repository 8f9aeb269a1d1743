package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"buy": true, "sell": true, "dividend": true, "split": true,
	"bonus": true, "opening-balance": true, "consolidation": true,
	"cancellation": true, "demerger": true, "return-of-capital": true,
}

// ValidateCreateTransaction validates a ledger append request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - portfolioId: Must be a valid UUID
//   - symbol: Must be non-empty
//   - date: Must be in YYYY-MM-DD format
//   - type: Must be one of the ten ledger entry types
//   - quantity: Must be a decimal string > 0
//   - price: Must be a decimal string >= 0
//   - currency: Must be non-empty
//
// Optional fields:
//   - fees: Must be a decimal string >= 0 if provided
//   - totalAmount: Must be a decimal string if provided (stored as-is, never re-derived)
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	portfolioErr := ValidateUUID(req.PortfolioID)
	if portfolioErr != nil {
		return portfolioErr
	}

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	}
	_, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		errors["date"] = err.Error()
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["transactionType"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["transactionType"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if quantity, err := decimal.NewFromString(req.Quantity); err != nil {
		errors["quantity"] = "quantity must be a decimal number"
	} else if !quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if price, err := decimal.NewFromString(req.Price); err != nil {
		errors["price"] = "price must be a decimal number"
	} else if price.IsNegative() {
		errors["price"] = "price cannot be negative"
	}

	if req.Fees != "" {
		if fees, err := decimal.NewFromString(req.Fees); err != nil {
			errors["fees"] = "fees must be a decimal number"
		} else if fees.IsNegative() {
			errors["fees"] = "fees cannot be negative"
		}
	}

	if req.TotalAmount != "" {
		if _, err := decimal.NewFromString(req.TotalAmount); err != nil {
			errors["totalAmount"] = "totalAmount must be a decimal number"
		}
	}

	if strings.TrimSpace(req.Currency) == "" {
		errors["currency"] = "currency is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
