package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/api/response"
	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/quotes"
)

// QuoteHandler handles quote and exchange-rate lookup HTTP requests. It
// exposes the cached provider directly so the UI can show a live price for
// any symbol, held or not.
type QuoteHandler struct {
	prices quotes.PriceProvider
	rates  quotes.RateProvider
}

// NewQuoteHandler creates a new QuoteHandler with the provided providers.
func NewQuoteHandler(prices quotes.PriceProvider, rates quotes.RateProvider) *QuoteHandler {
	return &QuoteHandler{prices: prices, rates: rates}
}

// RateResponse is the payload for an exchange-rate lookup.
type RateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	AsOf time.Time       `json:"asOf"`
}

// GetQuote handles GET requests to retrieve the current price for a symbol.
//
// Endpoint: GET /api/quote/{symbol}
// Response: 200 OK with Quote
// Error: 404 Not Found if the provider has no price for the symbol
// Error: 502 Bad Gateway if the provider request fails
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quote, err := h.prices.CurrentPrice(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrQuoteNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrQuoteNotFound.Error(), symbol)
			return
		}
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// GetRate handles GET requests to retrieve the exchange rate between two
// currencies.
//
// Endpoint: GET /api/rate/{from}/{to}
// Response: 200 OK with RateResponse
// Error: 404 Not Found if the provider has no rate for the pair
// Error: 502 Bad Gateway if the provider request fails
func (h *QuoteHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	rate, asOf, err := h.rates.Rate(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrRateNotFound.Error(), from+"/"+to)
			return
		}
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RateResponse{
		From: from,
		To:   to,
		Rate: rate,
		AsOf: asOf,
	})
}
