package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Execer abstracts *sql.DB and *sql.Tx for write operations, so a service
// can group a ledger insert and its projection update in one SQL transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier abstracts *sql.DB and *sql.Tx for single-row reads.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDecimal converts a stored decimal string back into a decimal value.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}
