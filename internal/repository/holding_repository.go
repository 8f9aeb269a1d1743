package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/model"
)

// HoldingRepository provides data access methods for the holding table: the
// materialized projection of the ledger. The (portfolio_id, symbol) unique
// constraint enforces the one-holding-per-pair invariant at the storage
// layer as well.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

const holdingColumns = `id, portfolio_id, symbol, company_name, exchange, currency, quantity, average_cost, current_price, last_updated`

// GetHolding retrieves the holding for a (portfolio, symbol) pair.
// The second return value is false when no holding exists; that is an
// expected state during projection, not an error.
func (s *HoldingRepository) GetHolding(ctx context.Context, q Querier, portfolioID, symbol string) (model.Holding, bool, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holding
		WHERE portfolio_id = ? AND symbol = ?
	`

	h, err := scanHoldingRow(q.QueryRowContext(ctx, query, portfolioID, symbol))
	if err == sql.ErrNoRows {
		return model.Holding{}, false, nil
	}
	if err != nil {
		return model.Holding{}, false, err
	}

	return h, true, nil
}

// GetHoldingsPerPortfolio retrieves all holdings for a portfolio, ordered by symbol.
func (s *HoldingRepository) GetHoldingsPerPortfolio(portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holding
		WHERE portfolio_id = ?
		ORDER BY symbol ASC
	`

	rows, err := s.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHeldSymbols returns every distinct symbol with at least one open
// holding. Used by the price refresher to know what to fetch.
func (s *HoldingRepository) GetHeldSymbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM holding ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query held symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan held symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating held symbols: %w", err)
	}

	return symbols, nil
}

// CurrencyPair is a conversion the FX refresher keeps warm: a holding
// currency and the base currency of the portfolio holding it.
type CurrencyPair struct {
	From string
	To   string
}

// GetCurrencyPairs returns every distinct (holding currency, portfolio base
// currency) pair across open holdings, skipping same-currency positions.
func (s *HoldingRepository) GetCurrencyPairs() ([]CurrencyPair, error) {
	query := `
		SELECT DISTINCT h.currency, p.base_currency
		FROM holding h
		JOIN portfolio p ON p.id = h.portfolio_id
		WHERE h.currency <> p.base_currency
		ORDER BY h.currency, p.base_currency`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency pairs: %w", err)
	}
	defer rows.Close()

	var pairs []CurrencyPair
	for rows.Next() {
		var pair CurrencyPair
		if err := rows.Scan(&pair.From, &pair.To); err != nil {
			return nil, fmt.Errorf("failed to scan currency pair: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency pairs: %w", err)
	}

	return pairs, nil
}

// UpsertHolding writes the holding row for a (portfolio, symbol) pair,
// replacing any existing row for the same pair.
func (s *HoldingRepository) UpsertHolding(ctx context.Context, ex Execer, h *model.Holding) error {
	query := `
		INSERT INTO holding (` + holdingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, symbol) DO UPDATE SET
			company_name = excluded.company_name,
			exchange = excluded.exchange,
			currency = excluded.currency,
			quantity = excluded.quantity,
			average_cost = excluded.average_cost,
			last_updated = excluded.last_updated
	`

	var currentPrice any
	if h.CurrentPrice.Valid {
		currentPrice = h.CurrentPrice.Decimal.String()
	}

	_, err := ex.ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		h.Symbol,
		h.CompanyName,
		h.Exchange,
		h.Currency,
		h.Quantity.String(),
		h.AverageCost.String(),
		currentPrice,
		h.LastUpdated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}

// DeleteHolding removes the holding for a (portfolio, symbol) pair.
// Called when a sell closes the position.
func (s *HoldingRepository) DeleteHolding(ctx context.Context, ex Execer, portfolioID, symbol string) error {
	_, err := ex.ExecContext(ctx, `DELETE FROM holding WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

// UpdatePriceBySymbol records a fresh quote on every holding of the symbol,
// across all portfolios. Returns the number of holdings touched.
func (s *HoldingRepository) UpdatePriceBySymbol(ctx context.Context, symbol string, price decimal.Decimal, asOf time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE holding SET current_price = ?, last_updated = ? WHERE symbol = ?`,
		price.String(),
		asOf.UTC().Format(time.RFC3339),
		symbol,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update holding price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read price update result: %w", err)
	}

	return affected, nil
}

// UpdateCompanyNameBySymbol enriches holdings whose company name is still
// the symbol placeholder assigned at creation.
func (s *HoldingRepository) UpdateCompanyNameBySymbol(ctx context.Context, symbol, companyName string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE holding SET company_name = ? WHERE symbol = ? AND company_name = symbol`,
		companyName,
		symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding company name: %w", err)
	}
	return nil
}

func scanHolding(rows *sql.Rows) (model.Holding, error) {
	var h model.Holding
	var exchange, priceStr sql.NullString
	var quantityStr, costStr, lastUpdatedStr string

	err := rows.Scan(
		&h.ID,
		&h.PortfolioID,
		&h.Symbol,
		&h.CompanyName,
		&exchange,
		&h.Currency,
		&quantityStr,
		&costStr,
		&priceStr,
		&lastUpdatedStr,
	)
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}

	return buildHolding(h, exchange, quantityStr, costStr, priceStr, lastUpdatedStr)
}

func scanHoldingRow(row *sql.Row) (model.Holding, error) {
	var h model.Holding
	var exchange, priceStr sql.NullString
	var quantityStr, costStr, lastUpdatedStr string

	err := row.Scan(
		&h.ID,
		&h.PortfolioID,
		&h.Symbol,
		&h.CompanyName,
		&exchange,
		&h.Currency,
		&quantityStr,
		&costStr,
		&priceStr,
		&lastUpdatedStr,
	)
	if err != nil {
		return model.Holding{}, err
	}

	return buildHolding(h, exchange, quantityStr, costStr, priceStr, lastUpdatedStr)
}

func buildHolding(h model.Holding, exchange sql.NullString, quantityStr, costStr string, priceStr sql.NullString, lastUpdatedStr string) (model.Holding, error) {
	var err error

	h.Exchange = exchange.String

	if h.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.Holding{}, err
	}
	if h.AverageCost, err = ParseDecimal(costStr); err != nil {
		return model.Holding{}, err
	}

	if priceStr.Valid {
		price, err := ParseDecimal(priceStr.String)
		if err != nil {
			return model.Holding{}, err
		}
		h.CurrentPrice = decimal.NewNullDecimal(price)
	}

	if h.LastUpdated, err = ParseTime(lastUpdatedStr); err != nil {
		return model.Holding{}, err
	}

	return h, nil
}
