package testutil_test

import (
	"testing"

	"github.com/vishal3152/port-api/internal/testutil"
)

// TestSetupTestDB verifies the fixture behaves like the production
// database: one shared in-memory store across statements, with foreign
// keys enforced.
func TestSetupTestDB(t *testing.T) {
	t.Run("statements share one database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")
		testutil.NewHolding(portfolio.ID, "AAPL").Build(t, db)

		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		_, err := db.Exec(
			`INSERT INTO holding (id, portfolio_id, symbol, company_name, currency, quantity, average_cost, last_updated)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			testutil.MakeID(), "no-such-portfolio", "AAPL", "AAPL", "USD", "10", "150", "2026-01-01T00:00:00Z",
		)
		if err == nil {
			t.Fatal("Expected a foreign key violation for an orphan holding")
		}
	})

	t.Run("cascade delete removes dependent rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		portfolio := testutil.CreatePortfolio(t, db, "Growth")
		testutil.NewHolding(portfolio.ID, "AAPL").Build(t, db)
		testutil.NewLedgerEntry(portfolio.ID).Build(t, db)

		if _, err := db.Exec(`DELETE FROM portfolio WHERE id = ?`, portfolio.ID); err != nil {
			t.Fatalf("Failed to delete portfolio: %v", err)
		}

		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "transaction", 0)
	})
}
