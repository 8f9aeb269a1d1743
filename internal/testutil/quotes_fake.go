package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/quotes"
)

// FakeQuoteProvider is an in-memory implementation of the quote provider
// interfaces for testing. It returns predefined test data instead of making
// actual API calls.
type FakeQuoteProvider struct {
	// Prices maps symbol to the quote to return.
	Prices map[string]quotes.Quote
	// Rates maps "FROM/TO" to the rate to return.
	Rates map[string]decimal.Decimal
	// Symbols maps symbol to the metadata to return.
	Symbols map[string]quotes.SymbolInfo

	// Err, when set, is returned from every call.
	Err error

	// CallCount tracks how many upstream calls were made.
	CallCount int
}

// NewFakeQuoteProvider creates an empty fake provider.
func NewFakeQuoteProvider() *FakeQuoteProvider {
	return &FakeQuoteProvider{
		Prices:  make(map[string]quotes.Quote),
		Rates:   make(map[string]decimal.Decimal),
		Symbols: make(map[string]quotes.SymbolInfo),
	}
}

// WithPrice registers a price for a symbol.
func (f *FakeQuoteProvider) WithPrice(symbol, price string) *FakeQuoteProvider {
	f.Prices[symbol] = quotes.Quote{
		Symbol:   symbol,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		AsOf:     time.Now().UTC(),
	}
	return f
}

// WithRate registers an FX rate for a currency pair.
func (f *FakeQuoteProvider) WithRate(from, to, rate string) *FakeQuoteProvider {
	f.Rates[from+"/"+to] = decimal.RequireFromString(rate)
	return f
}

// WithSymbolInfo registers metadata for a symbol.
func (f *FakeQuoteProvider) WithSymbolInfo(symbol, companyName string) *FakeQuoteProvider {
	f.Symbols[symbol] = quotes.SymbolInfo{
		Symbol:      symbol,
		CompanyName: companyName,
		Exchange:    "NASDAQ",
		Currency:    "USD",
	}
	return f
}

// WithError configures the fake to fail every call with err.
func (f *FakeQuoteProvider) WithError(err error) *FakeQuoteProvider {
	f.Err = err
	return f
}

// CurrentPrice implements quotes.PriceProvider.
func (f *FakeQuoteProvider) CurrentPrice(_ context.Context, symbol string) (quotes.Quote, error) {
	f.CallCount++
	if f.Err != nil {
		return quotes.Quote{}, f.Err
	}
	q, ok := f.Prices[symbol]
	if !ok {
		return quotes.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteNotFound, symbol)
	}
	return q, nil
}

// Rate implements quotes.RateProvider.
func (f *FakeQuoteProvider) Rate(_ context.Context, from, to string) (decimal.Decimal, time.Time, error) {
	f.CallCount++
	if f.Err != nil {
		return decimal.Decimal{}, time.Time{}, f.Err
	}
	if from == to {
		return decimal.NewFromInt(1), time.Now().UTC(), nil
	}
	rate, ok := f.Rates[from+"/"+to]
	if !ok {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("%w: %s/%s", apperrors.ErrRateNotFound, from, to)
	}
	return rate, time.Now().UTC(), nil
}

// LookupSymbol implements quotes.SymbolProvider.
func (f *FakeQuoteProvider) LookupSymbol(_ context.Context, symbol string) (quotes.SymbolInfo, error) {
	f.CallCount++
	if f.Err != nil {
		return quotes.SymbolInfo{}, f.Err
	}
	info, ok := f.Symbols[symbol]
	if !ok {
		return quotes.SymbolInfo{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return info, nil
}
