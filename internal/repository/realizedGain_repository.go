package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vishal3152/port-api/internal/model"
)

// RealizedGainRepository provides data access methods for the realized_gain
// table. Records are written once when a sell is applied and only ever read
// after that.
type RealizedGainRepository struct {
	db *sql.DB
}

// NewRealizedGainRepository creates a new RealizedGainRepository with the provided database connection.
func NewRealizedGainRepository(db *sql.DB) *RealizedGainRepository {
	return &RealizedGainRepository{db: db}
}

const realizedGainColumns = `id, portfolio_id, transaction_id, symbol, quantity, proceeds, cost_basis, gain, trade_date, created_at`

// InsertRealizedGain writes the realized gain record for a sell. The Execer
// lets the caller keep it in the same SQL transaction as the ledger insert.
func (s *RealizedGainRepository) InsertRealizedGain(ctx context.Context, ex Execer, g *model.RealizedGain) error {
	query := `
		INSERT INTO realized_gain (` + realizedGainColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := ex.ExecContext(ctx, query,
		g.ID,
		g.PortfolioID,
		g.TransactionID,
		g.Symbol,
		g.Quantity.String(),
		g.Proceeds.String(),
		g.CostBasis.String(),
		g.Gain.String(),
		g.TradeDate.UTC().Format("2006-01-02"),
		g.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert realized gain: %w", err)
	}

	return nil
}

// GetRealizedGainsPerPortfolio retrieves all realized gain records for a
// portfolio ordered by trade date.
func (s *RealizedGainRepository) GetRealizedGainsPerPortfolio(portfolioID string) ([]model.RealizedGain, error) {
	query := `
		SELECT ` + realizedGainColumns + `
		FROM realized_gain
		WHERE portfolio_id = ?
		ORDER BY trade_date ASC, created_at ASC
	`

	rows, err := s.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_gain table: %w", err)
	}
	defer rows.Close()

	gains := []model.RealizedGain{}

	for rows.Next() {
		g, err := scanRealizedGain(rows)
		if err != nil {
			return nil, err
		}
		gains = append(gains, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized_gain table: %w", err)
	}

	return gains, nil
}

func scanRealizedGain(rows *sql.Rows) (model.RealizedGain, error) {
	var g model.RealizedGain
	var quantityStr, proceedsStr, costStr, gainStr, tradeDateStr, createdAtStr string

	err := rows.Scan(
		&g.ID,
		&g.PortfolioID,
		&g.TransactionID,
		&g.Symbol,
		&quantityStr,
		&proceedsStr,
		&costStr,
		&gainStr,
		&tradeDateStr,
		&createdAtStr,
	)
	if err != nil {
		return model.RealizedGain{}, fmt.Errorf("failed to scan realized_gain table results: %w", err)
	}

	if g.Quantity, err = ParseDecimal(quantityStr); err != nil {
		return model.RealizedGain{}, err
	}
	if g.Proceeds, err = ParseDecimal(proceedsStr); err != nil {
		return model.RealizedGain{}, err
	}
	if g.CostBasis, err = ParseDecimal(costStr); err != nil {
		return model.RealizedGain{}, err
	}
	if g.Gain, err = ParseDecimal(gainStr); err != nil {
		return model.RealizedGain{}, err
	}

	if g.TradeDate, err = ParseTime(tradeDateStr); err != nil {
		return model.RealizedGain{}, err
	}
	if g.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.RealizedGain{}, err
	}

	return g, nil
}
