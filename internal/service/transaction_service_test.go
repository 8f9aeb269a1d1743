package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vishal3152/port-api/internal/api/request"
	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/projection"
	"github.com/vishal3152/port-api/internal/repository"
	"github.com/vishal3152/port-api/internal/testutil"
)

func buyRequest(portfolioID, symbol, quantity, price string) request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Type:        "buy",
		Quantity:    quantity,
		Price:       price,
		Currency:    "USD",
		Exchange:    "NASDAQ",
		Date:        "2026-01-15",
	}
}

func sellRequest(portfolioID, symbol, quantity, price string) request.CreateTransactionRequest {
	req := buyRequest(portfolioID, symbol, quantity, price)
	req.Type = "sell"
	return req
}

func mustEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// TestTransactionService_CreateTransaction tests the ledger append path.
//
// WHY: This is the only write path into the ledger and the projection. The
// ledger insert and the holding change must land together or not at all.
func TestTransactionService_CreateTransaction(t *testing.T) {
	t.Run("buy opens a holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		// Execute
		txn, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150"))

		// Assert
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		if txn.ID == "" {
			t.Error("Expected a generated transaction ID")
		}
		mustEqual(t, "TotalAmount", txn.TotalAmount, decimal.NewFromInt(7500))

		testutil.AssertRowCount(t, db, "transaction", 1)
		testutil.AssertRowCount(t, db, "holding", 1)

		holdingRepo := repository.NewHoldingRepository(db)
		holding, found, err := holdingRepo.GetHolding(context.Background(), db, portfolio.ID, "AAPL")
		if err != nil || !found {
			t.Fatalf("Expected holding after buy, found=%v err=%v", found, err)
		}
		mustEqual(t, "Quantity", holding.Quantity, decimal.NewFromInt(50))
		mustEqual(t, "AverageCost", holding.AverageCost, decimal.NewFromInt(150))
	})

	t.Run("sequential buys average the cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150")); err != nil {
			t.Fatalf("First buy failed: %v", err)
		}
		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "25", "180")); err != nil {
			t.Fatalf("Second buy failed: %v", err)
		}

		// Still one holding row per (portfolio, symbol).
		testutil.AssertRowCount(t, db, "holding", 1)

		holdingRepo := repository.NewHoldingRepository(db)
		holding, _, err := holdingRepo.GetHolding(context.Background(), db, portfolio.ID, "AAPL")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		mustEqual(t, "Quantity", holding.Quantity, decimal.NewFromInt(75))
		mustEqual(t, "AverageCost", holding.AverageCost, decimal.NewFromInt(160))
	})

	t.Run("full sell closes the holding and records the gain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}
		if _, err := svc.CreateTransaction(context.Background(), sellRequest(portfolio.ID, "AAPL", "50", "170")); err != nil {
			t.Fatalf("Sell failed: %v", err)
		}

		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "transaction", 2)
		testutil.AssertRowCount(t, db, "realized_gain", 1)

		gains, err := svc.GetRealizedGainsPerPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetRealizedGainsPerPortfolio() failed: %v", err)
		}
		if len(gains) != 1 {
			t.Fatalf("Expected 1 realized gain, got %d", len(gains))
		}
		mustEqual(t, "Gain", gains[0].Gain, decimal.NewFromInt(1000))
	})

	t.Run("oversell under close policy closes and caps the gain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}
		if _, err := svc.CreateTransaction(context.Background(), sellRequest(portfolio.ID, "AAPL", "80", "170")); err != nil {
			t.Fatalf("Sell failed: %v", err)
		}

		testutil.AssertRowCount(t, db, "holding", 0)

		gains, err := svc.GetRealizedGainsPerPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("GetRealizedGainsPerPortfolio() failed: %v", err)
		}
		// Realized over the 50 held, not the 80 requested.
		mustEqual(t, "Quantity", gains[0].Quantity, decimal.NewFromInt(50))
		mustEqual(t, "Gain", gains[0].Gain, decimal.NewFromInt(1000))
	})

	t.Run("oversell under reject policy leaves no trace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionServiceWithPolicy(t, db, projection.RejectOversell)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}

		_, err := svc.CreateTransaction(context.Background(), sellRequest(portfolio.ID, "AAPL", "80", "170"))
		if !errors.Is(err, apperrors.ErrOversell) {
			t.Fatalf("Expected ErrOversell, got %v", err)
		}

		// Rejected entry must not reach the ledger or touch the holding.
		testutil.AssertRowCount(t, db, "transaction", 1)
		testutil.AssertRowCount(t, db, "realized_gain", 0)

		holdingRepo := repository.NewHoldingRepository(db)
		holding, _, err := holdingRepo.GetHolding(context.Background(), db, portfolio.ID, "AAPL")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		mustEqual(t, "Quantity", holding.Quantity, decimal.NewFromInt(50))
	})

	t.Run("sell without a holding fails and appends nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		_, err := svc.CreateTransaction(context.Background(), sellRequest(portfolio.ID, "AAPL", "10", "170"))
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got %v", err)
		}

		testutil.AssertRowCount(t, db, "transaction", 0)
	})

	t.Run("unknown portfolio fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.CreateTransaction(context.Background(), buyRequest(testutil.MakeID(), "AAPL", "10", "100"))
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Fatalf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("dividend lands in the ledger without touching holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Income")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(portfolio.ID, "AAPL", "50", "150")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}

		div := buyRequest(portfolio.ID, "AAPL", "50", "0.25")
		div.Type = "dividend"
		div.TotalAmount = "12.50"
		if _, err := svc.CreateTransaction(context.Background(), div); err != nil {
			t.Fatalf("Dividend failed: %v", err)
		}

		testutil.AssertRowCount(t, db, "transaction", 2)

		holdingRepo := repository.NewHoldingRepository(db)
		holding, _, err := holdingRepo.GetHolding(context.Background(), db, portfolio.ID, "AAPL")
		if err != nil {
			t.Fatalf("GetHolding() failed: %v", err)
		}
		mustEqual(t, "Quantity", holding.Quantity, decimal.NewFromInt(50))
		mustEqual(t, "AverageCost", holding.AverageCost, decimal.NewFromInt(150))
	})

	t.Run("supplied totalAmount is stored as-is", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		req := buyRequest(portfolio.ID, "AAPL", "50", "150")
		req.Fees = "9.95"
		req.TotalAmount = "7499.99"

		txn, err := svc.CreateTransaction(context.Background(), req)
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}
		mustEqual(t, "TotalAmount", txn.TotalAmount, decimal.RequireFromString("7499.99"))

		stored, err := svc.GetTransaction(txn.ID)
		if err != nil {
			t.Fatalf("GetTransaction() failed: %v", err)
		}
		mustEqual(t, "TotalAmount", stored.TotalAmount, decimal.RequireFromString("7499.99"))
		mustEqual(t, "Fees", stored.Fees, decimal.RequireFromString("9.95"))
	})
}

// TestTransactionService_Reads tests the ledger read paths.
func TestTransactionService_Reads(t *testing.T) {
	t.Run("lists entries per portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p1 := testutil.CreatePortfolio(t, db, "First")
		p2 := testutil.CreatePortfolio(t, db, "Second")

		if _, err := svc.CreateTransaction(context.Background(), buyRequest(p1.ID, "AAPL", "10", "100")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}
		if _, err := svc.CreateTransaction(context.Background(), buyRequest(p2.ID, "MSFT", "5", "300")); err != nil {
			t.Fatalf("Buy failed: %v", err)
		}

		txns, err := svc.GetTransactionsPerPortfolio(p1.ID)
		if err != nil {
			t.Fatalf("GetTransactionsPerPortfolio() failed: %v", err)
		}
		if len(txns) != 1 || txns[0].Symbol != "AAPL" {
			t.Errorf("Expected only the AAPL entry for portfolio 1, got %v", txns)
		}

		all, err := svc.GetTransactionsPerPortfolio("")
		if err != nil {
			t.Fatalf("GetTransactionsPerPortfolio(all) failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 entries across portfolios, got %d", len(all))
		}
	})

	t.Run("unknown entry ID fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.GetTransaction(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}
