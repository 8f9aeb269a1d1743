package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vishal3152/port-api/internal/api/handlers"
	"github.com/vishal3152/port-api/internal/quotes"
	"github.com/vishal3152/port-api/internal/testutil"
)

// TestQuoteHandler_GetQuote tests the live quote endpoint.
func TestQuoteHandler_GetQuote(t *testing.T) {
	t.Run("returns the current price", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider().WithPrice("AAPL", "175.50")
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quote/AAPL",
			map[string]string{"symbol": "AAPL"})
		rec := httptest.NewRecorder()

		handler.GetQuote(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		var quote quotes.Quote
		testutil.DecodeJSONResponse(t, rec, &quote)
		if quote.Symbol != "AAPL" {
			t.Errorf("Symbol = %q, want AAPL", quote.Symbol)
		}
	})

	t.Run("returns 404 when the provider has no price", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider()
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quote/NOPE",
			map[string]string{"symbol": "NOPE"})
		rec := httptest.NewRecorder()

		handler.GetQuote(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", rec.Code)
		}
	})

	t.Run("returns 502 when the provider fails", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider().WithError(errors.New("upstream down"))
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quote/AAPL",
			map[string]string{"symbol": "AAPL"})
		rec := httptest.NewRecorder()

		handler.GetQuote(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want 502", rec.Code)
		}
	})
}

// TestQuoteHandler_GetRate tests the exchange-rate endpoint.
func TestQuoteHandler_GetRate(t *testing.T) {
	t.Run("returns the rate for a pair", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider().WithRate("EUR", "USD", "1.08")
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rate/EUR/USD",
			map[string]string{"from": "EUR", "to": "USD"})
		rec := httptest.NewRecorder()

		handler.GetRate(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}

		var rate handlers.RateResponse
		testutil.DecodeJSONResponse(t, rec, &rate)
		if rate.From != "EUR" || rate.To != "USD" {
			t.Errorf("Pair = %s/%s, want EUR/USD", rate.From, rate.To)
		}
		if !rate.Rate.Equal(decimal.RequireFromString("1.08")) {
			t.Errorf("Rate = %s, want 1.08", rate.Rate)
		}
	})

	t.Run("returns 404 when the provider has no rate", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider()
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rate/EUR/XXX",
			map[string]string{"from": "EUR", "to": "XXX"})
		rec := httptest.NewRecorder()

		handler.GetRate(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", rec.Code)
		}
	})

	t.Run("returns 502 when the provider fails", func(t *testing.T) {
		provider := testutil.NewFakeQuoteProvider().WithError(errors.New("upstream down"))
		handler := handlers.NewQuoteHandler(provider, provider)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/rate/EUR/USD",
			map[string]string{"from": "EUR", "to": "USD"})
		rec := httptest.NewRecorder()

		handler.GetRate(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want 502", rec.Code)
		}
	})
}
