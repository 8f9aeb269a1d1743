package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vishal3152/port-api/internal/api/request"
	"github.com/vishal3152/port-api/internal/metrics"
	"github.com/vishal3152/port-api/internal/model"
	"github.com/vishal3152/port-api/internal/repository"
)

// PortfolioService handles portfolio lifecycle and read-side aggregation.
// Metrics reads work on a snapshot of the holdings query result; they never
// mutate holdings and never block on quote fetches. Prices are whatever
// the refresher last recorded on the holding rows.
type PortfolioService struct {
	portfolioRepo   *repository.PortfolioRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
	}
}

// GetAllPortfolios retrieves all portfolios.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios()
}

// GetPortfolio retrieves a single portfolio by ID.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(portfolioID)
}

// CreatePortfolio creates a new portfolio from a validated request.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	portfolio := &model.Portfolio{
		ID:                uuid.New().String(),
		Name:              req.Name,
		BaseCurrency:      req.BaseCurrency,
		TaxResidency:      req.TaxResidency,
		FinancialYearEnd:  req.FinancialYearEnd,
		PerformanceMethod: req.PerformanceMethod,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return nil, err
	}

	return portfolio, nil
}

// UpdatePortfolio applies the provided fields to an existing portfolio.
func (s *PortfolioService) UpdatePortfolio(ctx context.Context, portfolioID string, req request.UpdatePortfolioRequest) (model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}

	if req.Name != nil {
		portfolio.Name = *req.Name
	}
	if req.BaseCurrency != nil {
		portfolio.BaseCurrency = *req.BaseCurrency
	}
	if req.TaxResidency != nil {
		portfolio.TaxResidency = *req.TaxResidency
	}
	if req.FinancialYearEnd != nil {
		portfolio.FinancialYearEnd = *req.FinancialYearEnd
	}
	if req.PerformanceMethod != nil {
		portfolio.PerformanceMethod = *req.PerformanceMethod
	}

	if err := s.portfolioRepo.UpdatePortfolio(ctx, &portfolio); err != nil {
		return model.Portfolio{}, err
	}

	return portfolio, nil
}

// DeletePortfolio removes a portfolio and, through cascade, its ledger,
// holdings, and realized gains.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return err
	}
	return s.portfolioRepo.DeletePortfolio(ctx, portfolioID)
}

// GetHoldings returns the portfolio's open positions with their derived
// valuation metrics. A holding without a recorded price values at zero.
func (s *PortfolioService) GetHoldings(portfolioID string) ([]model.HoldingWithMetrics, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}

	holdings, err := s.holdingRepo.GetHoldingsPerPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	result := make([]model.HoldingWithMetrics, 0, len(holdings))
	for _, h := range holdings {
		result = append(result, model.HoldingWithMetrics{
			Holding:        h,
			HoldingMetrics: metrics.ForHolding(h, h.PriceOrZero()),
		})
	}

	return result, nil
}

// GetPortfolioMetrics computes the aggregate valuation for a portfolio from
// its current holdings and its dividend ledger entries.
func (s *PortfolioService) GetPortfolioMetrics(portfolioID string) (model.PortfolioMetrics, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return model.PortfolioMetrics{}, err
	}

	holdings, err := s.holdingRepo.GetHoldingsPerPortfolio(portfolioID)
	if err != nil {
		return model.PortfolioMetrics{}, err
	}

	transactions, err := s.transactionRepo.GetTransactionsPerPortfolio(portfolioID)
	if err != nil {
		return model.PortfolioMetrics{}, err
	}

	return metrics.ForPortfolio(portfolioID, holdings, transactions), nil
}
