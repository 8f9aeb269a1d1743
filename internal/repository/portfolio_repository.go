package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios ordered by creation time.
// Returns an empty slice when none exist.
func (s *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `
		SELECT id, name, base_currency, tax_residency, financial_year_end, performance_method, created_at
		FROM portfolio
		ORDER BY created_at ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio by ID.
// Returns apperrors.ErrPortfolioNotFound when no row matches.
func (s *PortfolioRepository) GetPortfolioOnID(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, name, base_currency, tax_residency, financial_year_end, performance_method, created_at
		FROM portfolio
		WHERE id = ?
	`

	var p model.Portfolio
	var taxResidency, fyEnd, perfMethod sql.NullString
	var createdAtStr string

	err := s.db.QueryRow(query, portfolioID).Scan(
		&p.ID,
		&p.Name,
		&p.BaseCurrency,
		&taxResidency,
		&fyEnd,
		&perfMethod,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	p.TaxResidency = taxResidency.String
	p.FinancialYearEnd = fyEnd.String
	p.PerformanceMethod = perfMethod.String

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// InsertPortfolio writes a new portfolio row.
func (s *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
		INSERT INTO portfolio (id, name, base_currency, tax_residency, financial_year_end, performance_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.BaseCurrency,
		p.TaxResidency,
		p.FinancialYearEnd,
		p.PerformanceMethod,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolio rewrites the mutable columns of an existing portfolio.
// Returns apperrors.ErrPortfolioNotFound when no row matches.
func (s *PortfolioRepository) UpdatePortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
		UPDATE portfolio
		SET name = ?, base_currency = ?, tax_residency = ?, financial_year_end = ?, performance_method = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		p.Name,
		p.BaseCurrency,
		p.TaxResidency,
		p.FinancialYearEnd,
		p.PerformanceMethod,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}

// DeletePortfolio removes a portfolio. Transactions, holdings and realized
// gains cascade through foreign keys. Portfolio IDs are never reused.
func (s *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM portfolio WHERE id = ?`, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}

func scanPortfolio(rows *sql.Rows) (model.Portfolio, error) {
	var p model.Portfolio
	var taxResidency, fyEnd, perfMethod sql.NullString
	var createdAtStr string

	err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.BaseCurrency,
		&taxResidency,
		&fyEnd,
		&perfMethod,
		&createdAtStr,
	)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio table results: %w", err)
	}

	p.TaxResidency = taxResidency.String
	p.FinancialYearEnd = fyEnd.String
	p.PerformanceMethod = perfMethod.String

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}
