package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vishal3152/port-api/internal/apperrors"
)

// Client fetches prices, FX rates, and symbol metadata from the Yahoo
// Finance chart API. It implements PriceProvider, RateProvider, and
// SymbolProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a quote client. apiKey may be empty; when set it is sent
// as X-API-Key on every request (used when the data server sits behind a
// proxy that requires one).
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://query1.finance.yahoo.com",
		apiKey:     apiKey,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint. Used in
// tests against an httptest server.
func NewClientWithBaseURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// CurrentPrice fetches the latest price for a symbol.
// Prefers the regular market price from chart metadata and falls back to
// the most recent daily close.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, apperrors.ErrQuoteNotFound
	}

	response, err := c.queryChart(ctx, symbol, "interval=1d&range=5d")
	if err != nil {
		return Quote{}, err
	}

	result := response.Chart.Result[0]
	meta := result.Meta

	if meta.RegularMarketPrice > 0 {
		asOf := time.Unix(meta.RegularMarketTime, 0).UTC()
		if meta.RegularMarketTime == 0 {
			asOf = time.Now().UTC()
		}
		return Quote{
			Symbol:   symbol,
			Price:    decimal.NewFromFloat(meta.RegularMarketPrice),
			Currency: meta.Currency,
			AsOf:     asOf,
		}, nil
	}

	// Fall back to the last daily close in the series.
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return Quote{}, fmt.Errorf("%w: no close prices for %s", apperrors.ErrQuoteNotFound, symbol)
	}

	closes := result.Indicators.Quote[0].Close
	timestamps := result.Timestamp
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			asOf := time.Now().UTC()
			if i < len(timestamps) {
				asOf = time.Unix(timestamps[i], 0).UTC()
			}
			return Quote{
				Symbol:   symbol,
				Price:    decimal.NewFromFloat(closes[i]),
				Currency: meta.Currency,
				AsOf:     asOf,
			}, nil
		}
	}

	return Quote{}, fmt.Errorf("%w: no usable price for %s", apperrors.ErrQuoteNotFound, symbol)
}

// Rate returns how many 'to' units per 1 'from' unit, using the FX chart
// symbols Yahoo exposes (e.g. "USDEUR=X"). Identical currencies short-circuit
// to a rate of 1.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, time.Time, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("%w: empty currency", apperrors.ErrRateNotFound)
	}
	if from == to {
		return decimal.NewFromInt(1), time.Now().UTC(), nil
	}

	response, err := c.queryChart(ctx, from+to+"=X", "interval=1h&range=1d")
	if err != nil {
		return decimal.Decimal{}, time.Time{}, err
	}

	meta := response.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("%w: %s/%s", apperrors.ErrRateNotFound, from, to)
	}

	asOf := time.Unix(meta.RegularMarketTime, 0).UTC()
	if meta.RegularMarketTime == 0 {
		asOf = time.Now().UTC()
	}

	return decimal.NewFromFloat(meta.RegularMarketPrice), asOf, nil
}

// LookupSymbol fetches display metadata for an instrument.
func (c *Client) LookupSymbol(ctx context.Context, symbol string) (SymbolInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return SymbolInfo{}, apperrors.ErrSymbolNotFound
	}

	response, err := c.queryChart(ctx, symbol, "interval=1d&range=1d")
	if err != nil {
		return SymbolInfo{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}

	meta := response.Chart.Result[0].Meta

	companyName := meta.LongName
	if companyName == "" {
		companyName = meta.Shortname
	}
	if companyName == "" {
		companyName = symbol
	}

	return SymbolInfo{
		Symbol:      symbol,
		CompanyName: companyName,
		Exchange:    meta.ExchangeName,
		Currency:    meta.Currency,
	}, nil
}

// queryChart executes a chart API request and performs the shared error
// handling: HTTP status, JSON parsing, API-level errors, empty results.
func (c *Client) queryChart(ctx context.Context, symbol, params string) (chartResponse, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, symbol, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartResponse{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chartResponse{}, fmt.Errorf("quote provider returned status %d for %s", resp.StatusCode, symbol)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResponse{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartResponse{}, err
	}

	if response.Chart.Error != nil {
		return chartResponse{}, fmt.Errorf("quote provider error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return chartResponse{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return response, nil
}
