package quotes

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CachedProvider wraps a price, rate, and symbol provider with a
// freshness-windowed cache. A cached entry younger than its window is served
// without touching the upstream; a stale entry triggers a refetch. On
// refetch failure the stale entry is returned as a fallback so a flaky
// upstream degrades to stale prices instead of errors.
//
// All methods are safe for concurrent use.
type CachedProvider struct {
	prices  PriceProvider
	rates   RateProvider
	symbols SymbolProvider

	priceWindow time.Duration
	rateWindow  time.Duration

	mu         sync.RWMutex
	priceCache map[string]cachedQuote
	rateCache  map[string]cachedRate
	now        func() time.Time
}

type cachedQuote struct {
	quote   Quote
	fetched time.Time
}

type cachedRate struct {
	rate    decimal.Decimal
	asOf    time.Time
	fetched time.Time
}

// NewCachedProvider wraps the given providers with freshness windows.
// Typical windows are 5 minutes for prices and 1 hour for FX rates.
func NewCachedProvider(prices PriceProvider, rates RateProvider, symbols SymbolProvider, priceWindow, rateWindow time.Duration) *CachedProvider {
	return &CachedProvider{
		prices:      prices,
		rates:       rates,
		symbols:     symbols,
		priceWindow: priceWindow,
		rateWindow:  rateWindow,
		priceCache:  make(map[string]cachedQuote),
		rateCache:   make(map[string]cachedRate),
		now:         time.Now,
	}
}

// CurrentPrice returns the cached quote when fresh, refetching otherwise.
func (p *CachedProvider) CurrentPrice(ctx context.Context, symbol string) (Quote, error) {
	p.mu.RLock()
	cached, ok := p.priceCache[symbol]
	p.mu.RUnlock()

	if ok && p.now().Sub(cached.fetched) < p.priceWindow {
		return cached.quote, nil
	}

	quote, err := p.prices.CurrentPrice(ctx, symbol)
	if err != nil {
		if ok {
			// Stale beats nothing.
			return cached.quote, nil
		}
		return Quote{}, err
	}

	p.mu.Lock()
	p.priceCache[symbol] = cachedQuote{quote: quote, fetched: p.now()}
	p.mu.Unlock()

	return quote, nil
}

// Rate returns the cached FX rate when fresh, refetching otherwise.
func (p *CachedProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, time.Time, error) {
	key := from + "/" + to

	p.mu.RLock()
	cached, ok := p.rateCache[key]
	p.mu.RUnlock()

	if ok && p.now().Sub(cached.fetched) < p.rateWindow {
		return cached.rate, cached.asOf, nil
	}

	rate, asOf, err := p.rates.Rate(ctx, from, to)
	if err != nil {
		if ok {
			return cached.rate, cached.asOf, nil
		}
		return decimal.Decimal{}, time.Time{}, err
	}

	p.mu.Lock()
	p.rateCache[key] = cachedRate{rate: rate, asOf: asOf, fetched: p.now()}
	p.mu.Unlock()

	return rate, asOf, nil
}

// LookupSymbol passes through to the upstream. Metadata rarely changes but
// is also rarely requested, so it is not cached.
func (p *CachedProvider) LookupSymbol(ctx context.Context, symbol string) (SymbolInfo, error) {
	return p.symbols.LookupSymbol(ctx, symbol)
}
