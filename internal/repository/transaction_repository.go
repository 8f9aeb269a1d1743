package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/model"
)

// TransactionRepository provides data access methods for the transaction
// ledger. The ledger is append-only: rows are inserted and read, never
// updated or deleted directly (portfolio deletion cascades).
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, portfolio_id, symbol, type, quantity, price, total_amount, fees, currency, exchange, trade_date, created_at`

// InsertTransaction appends a ledger entry. The Execer lets the caller run
// the insert inside the same SQL transaction as the projection update.
func (s *TransactionRepository) InsertTransaction(ctx context.Context, ex Execer, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := ex.ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Symbol,
		string(t.Type),
		t.Quantity.String(),
		t.Price.String(),
		t.TotalAmount.String(),
		t.Fees.String(),
		t.Currency,
		t.Exchange,
		t.TradeDate.UTC().Format("2006-01-02"),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransactionsPerPortfolio retrieves the ledger for a specific portfolio,
// or the full ledger if portfolioID is empty, ordered by trade date then
// insertion order.
func (s *TransactionRepository) GetTransactionsPerPortfolio(portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
	`

	var args []any

	if portfolioID == "" {
		query += `
		ORDER BY trade_date ASC, created_at ASC
		`
	} else {
		query += `
		WHERE portfolio_id = ?
		ORDER BY trade_date ASC, created_at ASC
		`
		args = append(args, portfolioID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single ledger entry by ID.
// Returns apperrors.ErrTransactionNotFound when no row matches.
func (s *TransactionRepository) GetTransaction(transactionID string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE id = ?
	`

	var t model.Transaction
	var typeStr, quantityStr, priceStr, totalStr, feesStr, tradeDateStr, createdAtStr string
	var exchange sql.NullString

	err := s.db.QueryRow(query, transactionID).Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Symbol,
		&typeStr,
		&quantityStr,
		&priceStr,
		&totalStr,
		&feesStr,
		&t.Currency,
		&exchange,
		&tradeDateStr,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	return buildTransaction(t, typeStr, quantityStr, priceStr, totalStr, feesStr, exchange, tradeDateStr, createdAtStr)
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var typeStr, quantityStr, priceStr, totalStr, feesStr, tradeDateStr, createdAtStr string
	var exchange sql.NullString

	err := rows.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Symbol,
		&typeStr,
		&quantityStr,
		&priceStr,
		&totalStr,
		&feesStr,
		&t.Currency,
		&exchange,
		&tradeDateStr,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	return buildTransaction(t, typeStr, quantityStr, priceStr, totalStr, feesStr, exchange, tradeDateStr, createdAtStr)
}

func buildTransaction(t model.Transaction, typeStr, quantityStr, priceStr, totalStr, feesStr string, exchange sql.NullString, tradeDateStr, createdAtStr string) (model.Transaction, error) {
	var err error

	t.Type = model.TransactionType(typeStr)
	t.Exchange = exchange.String

	if t.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Price, err = ParseDecimal(priceStr); err != nil {
		return model.Transaction{}, err
	}
	if t.TotalAmount, err = ParseDecimal(totalStr); err != nil {
		return model.Transaction{}, err
	}
	if t.Fees, err = ParseDecimal(feesStr); err != nil {
		return model.Transaction{}, err
	}

	if t.TradeDate, err = ParseTime(tradeDateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}
