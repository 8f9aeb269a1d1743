package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/api/request"
	"github.com/vishal3152/port-api/internal/model"
	"github.com/vishal3152/port-api/internal/projection"
	"github.com/vishal3152/port-api/internal/repository"
)

// TransactionService owns the ledger append path: it persists the
// transaction, applies it to the holdings projection, and records the
// realized gain for sells, all inside one SQL transaction.
//
// Applies are serialized per portfolio. applyTransaction is a
// read-modify-write over the holding row, so two concurrent HTTP handlers
// appending to the same portfolio must not interleave; handlers for
// different portfolios proceed in parallel.
type TransactionService struct {
	db               *sql.DB
	transactionRepo  *repository.TransactionRepository
	holdingRepo      *repository.HoldingRepository
	realizedGainRepo *repository.RealizedGainRepository
	portfolioRepo    *repository.PortfolioRepository
	oversellPolicy   projection.OversellPolicy

	mu             sync.Mutex
	portfolioLocks map[string]*sync.Mutex
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	holdingRepo *repository.HoldingRepository,
	realizedGainRepo *repository.RealizedGainRepository,
	portfolioRepo *repository.PortfolioRepository,
	oversellPolicy projection.OversellPolicy,
) *TransactionService {
	return &TransactionService{
		db:               db,
		transactionRepo:  transactionRepo,
		holdingRepo:      holdingRepo,
		realizedGainRepo: realizedGainRepo,
		portfolioRepo:    portfolioRepo,
		oversellPolicy:   oversellPolicy,
		portfolioLocks:   make(map[string]*sync.Mutex),
	}
}

// lockPortfolio returns the mutex serializing applies for one portfolio,
// creating it on first use. Locks are never removed; the map grows with the
// number of portfolios, which is bounded by user action.
func (s *TransactionService) lockPortfolio(portfolioID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.portfolioLocks[portfolioID]
	if !ok {
		lock = &sync.Mutex{}
		s.portfolioLocks[portfolioID] = lock
	}
	return lock
}

// CreateTransaction appends a validated ledger entry and applies it to the
// holdings projection. The ledger insert, holding upsert/delete, and
// realized gain insert commit atomically; a rejected entry leaves no trace.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(req.PortfolioID); err != nil {
		return nil, err
	}

	transaction, err := buildTransaction(req)
	if err != nil {
		return nil, err
	}

	lock := s.lockPortfolio(transaction.PortfolioID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	existing, found, err := s.holdingRepo.GetHolding(ctx, tx, transaction.PortfolioID, transaction.Symbol)
	if err != nil {
		return nil, err
	}

	var existingPtr *model.Holding
	if found {
		existingPtr = &existing
	}

	result, err := projection.Apply(existingPtr, *transaction, s.oversellPolicy)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.InsertTransaction(ctx, tx, transaction); err != nil {
		return nil, err
	}

	switch result.Outcome {
	case projection.OutcomeCreated:
		result.Holding.ID = uuid.New().String()
		result.Holding.LastUpdated = transaction.CreatedAt
		if err := s.holdingRepo.UpsertHolding(ctx, tx, &result.Holding); err != nil {
			return nil, err
		}
	case projection.OutcomeUpdated:
		result.Holding.LastUpdated = transaction.CreatedAt
		if err := s.holdingRepo.UpsertHolding(ctx, tx, &result.Holding); err != nil {
			return nil, err
		}
	case projection.OutcomeClosed:
		if err := s.holdingRepo.DeleteHolding(ctx, tx, transaction.PortfolioID, transaction.Symbol); err != nil {
			return nil, err
		}
	}

	if result.Realized != nil {
		result.Realized.ID = uuid.New().String()
		result.Realized.CreatedAt = transaction.CreatedAt
		if err := s.realizedGainRepo.InsertRealizedGain(ctx, tx, result.Realized); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// GetTransactionsPerPortfolio retrieves the ledger for a specific portfolio,
// or across all portfolios if portfolioID is empty.
func (s *TransactionService) GetTransactionsPerPortfolio(portfolioID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactionsPerPortfolio(portfolioID)
}

// GetTransaction retrieves a single ledger entry by its ID.
func (s *TransactionService) GetTransaction(transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(transactionID)
}

// GetRealizedGainsPerPortfolio retrieves the realized gain records written
// by past sells on a portfolio.
func (s *TransactionService) GetRealizedGainsPerPortfolio(portfolioID string) ([]model.RealizedGain, error) {
	return s.realizedGainRepo.GetRealizedGainsPerPortfolio(portfolioID)
}

// buildTransaction converts a validated request into a ledger entry.
// TotalAmount defaults to quantity x price + fees when the caller omits it;
// a supplied value is stored as-is and never re-derived.
func buildTransaction(req request.CreateTransactionRequest) (*model.Transaction, error) {
	tradeDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	fees := decimal.Zero
	if req.Fees != "" {
		if fees, err = decimal.NewFromString(req.Fees); err != nil {
			return nil, fmt.Errorf("invalid fees: %w", err)
		}
	}

	totalAmount := quantity.Mul(price).Add(fees)
	if req.TotalAmount != "" {
		if totalAmount, err = decimal.NewFromString(req.TotalAmount); err != nil {
			return nil, fmt.Errorf("invalid totalAmount: %w", err)
		}
	}

	return &model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: req.PortfolioID,
		Symbol:      req.Symbol,
		Type:        model.TransactionType(req.Type),
		Quantity:    quantity,
		Price:       price,
		TotalAmount: totalAmount,
		Fees:        fees,
		Currency:    req.Currency,
		Exchange:    req.Exchange,
		TradeDate:   tradeDate,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
