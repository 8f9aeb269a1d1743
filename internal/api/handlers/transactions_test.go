package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vishal3152/port-api/internal/api/handlers"
	"github.com/vishal3152/port-api/internal/api/request"
	"github.com/vishal3152/port-api/internal/model"
	"github.com/vishal3152/port-api/internal/testutil"
)

func transactionBody(portfolioID, symbol, txType, quantity, price string) request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Type:        txType,
		Quantity:    quantity,
		Price:       price,
		Currency:    "USD",
		Exchange:    "NASDAQ",
		Date:        "2026-01-15",
	}
}

// TestTransactionHandler_CreateTransaction tests the ledger append endpoint.
//
// WHY: This endpoint maps every projection failure onto a distinct HTTP
// status; clients rely on 404 vs 409 vs 400 to drive their error handling.
func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("appends a buy and returns 201", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "buy", "50", "150"))
		rec := httptest.NewRecorder()

		// Execute
		handler.CreateTransaction(rec, req)

		// Assert
		if rec.Code != http.StatusCreated {
			t.Fatalf("Status = %d, want 201: %s", rec.Code, rec.Body.String())
		}

		var created model.Transaction
		testutil.DecodeJSONResponse(t, rec, &created)
		if created.ID == "" {
			t.Error("Expected a generated transaction ID in response")
		}
		if created.Symbol != "AAPL" {
			t.Errorf("Symbol = %q, want AAPL", created.Symbol)
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(testutil.MakeID(), "AAPL", "buy", "50", "150"))
		rec := httptest.NewRecorder()

		handler.CreateTransaction(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", rec.Code)
		}
	})

	t.Run("returns 404 for a sell with no holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "sell", "10", "150"))
		rec := httptest.NewRecorder()

		handler.CreateTransaction(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", rec.Code)
		}
	})

	t.Run("returns 409 for an oversell under the reject policy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionServiceWithPolicy(t, db, "reject")
		handler := handlers.NewTransactionHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		buyReq := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "buy", "50", "150"))
		buyRec := httptest.NewRecorder()
		handler.CreateTransaction(buyRec, buyReq)
		if buyRec.Code != http.StatusCreated {
			t.Fatalf("Buy failed with status %d", buyRec.Code)
		}

		sellReq := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "sell", "80", "170"))
		sellRec := httptest.NewRecorder()
		handler.CreateTransaction(sellRec, sellReq)

		if sellRec.Code != http.StatusConflict {
			t.Errorf("Status = %d, want 409", sellRec.Code)
		}
	})

	t.Run("returns 400 for validation failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		body := transactionBody(portfolio.ID, "AAPL", "buy", "-5", "150")
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body)
		rec := httptest.NewRecorder()

		handler.CreateTransaction(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("returns 400 for unknown body fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			map[string]string{"portfolio": "typo-field"})
		rec := httptest.NewRecorder()

		handler.CreateTransaction(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want 400", rec.Code)
		}
	})
}

// TestTransactionHandler_Reads tests ledger retrieval endpoints.
func TestTransactionHandler_Reads(t *testing.T) {
	t.Run("lists the ledger for a portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Growth")
		testutil.NewLedgerEntry(portfolio.ID).WithSymbol("AAPL").Build(t, db)
		testutil.NewLedgerEntry(portfolio.ID).WithSymbol("MSFT").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolio/"+portfolio.ID+"/transactions",
			map[string]string{"uuid": portfolio.ID})
		rec := httptest.NewRecorder()

		handler.TransactionsPerPortfolio(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		var txns []model.Transaction
		testutil.DecodeJSONResponse(t, rec, &txns)
		if len(txns) != 2 {
			t.Errorf("Expected 2 entries, got %d", len(txns))
		}
	})

	t.Run("returns 404 for an unknown entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTransactionHandler(testutil.NewTestTransactionService(t, db))

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id,
			map[string]string{"uuid": id})
		rec := httptest.NewRecorder()

		handler.GetTransaction(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", rec.Code)
		}
	})

	t.Run("lists realized gains after a sell", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		handler := handlers.NewTransactionHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")

		for _, body := range []request.CreateTransactionRequest{
			transactionBody(portfolio.ID, "AAPL", "buy", "50", "150"),
			transactionBody(portfolio.ID, "AAPL", "sell", "20", "170"),
		} {
			rec := httptest.NewRecorder()
			handler.CreateTransaction(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body))
			if rec.Code != http.StatusCreated {
				t.Fatalf("Setup transaction failed with status %d: %s", rec.Code, rec.Body.String())
			}
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolio/"+portfolio.ID+"/realized-gains",
			map[string]string{"uuid": portfolio.ID})
		rec := httptest.NewRecorder()

		handler.RealizedGainsPerPortfolio(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		var gains []model.RealizedGain
		testutil.DecodeJSONResponse(t, rec, &gains)
		if len(gains) != 1 {
			t.Errorf("Expected 1 realized gain, got %d", len(gains))
		}
	})
}
