package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type stubProvider struct {
	quote Quote
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubProvider) CurrentPrice(_ context.Context, symbol string) (Quote, error) {
	s.calls++
	if s.err != nil {
		return Quote{}, s.err
	}
	q := s.quote
	q.Symbol = symbol
	return q, nil
}

func (s *stubProvider) Rate(_ context.Context, _, _ string) (decimal.Decimal, time.Time, error) {
	s.calls++
	if s.err != nil {
		return decimal.Decimal{}, time.Time{}, s.err
	}
	return s.rate, time.Now().UTC(), nil
}

func (s *stubProvider) LookupSymbol(_ context.Context, symbol string) (SymbolInfo, error) {
	s.calls++
	if s.err != nil {
		return SymbolInfo{}, s.err
	}
	return SymbolInfo{Symbol: symbol, CompanyName: "Stub Inc."}, nil
}

// TestCachedProvider_CurrentPrice tests the price freshness window.
//
// WHY: The cache is what keeps metric reads from hammering the upstream; a
// fresh entry must be served without an upstream call, a stale one must
// trigger a refetch, and upstream failure must degrade to the stale value.
func TestCachedProvider_CurrentPrice(t *testing.T) {
	price := decimal.RequireFromString("175.50")

	t.Run("fresh entry skips the upstream", func(t *testing.T) {
		upstream := &stubProvider{quote: Quote{Price: price, Currency: "USD"}}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		base := time.Now()
		cached.now = func() time.Time { return base }

		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		// One minute later: still inside the 5 minute window.
		cached.now = func() time.Time { return base.Add(time.Minute) }
		quote, err := cached.CurrentPrice(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		if upstream.calls != 1 {
			t.Errorf("Expected 1 upstream call, got %d", upstream.calls)
		}
		if !quote.Price.Equal(price) {
			t.Errorf("Price = %s, want %s", quote.Price, price)
		}
	})

	t.Run("stale entry triggers a refetch", func(t *testing.T) {
		upstream := &stubProvider{quote: Quote{Price: price, Currency: "USD"}}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		base := time.Now()
		cached.now = func() time.Time { return base }
		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		cached.now = func() time.Time { return base.Add(6 * time.Minute) }
		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		if upstream.calls != 2 {
			t.Errorf("Expected 2 upstream calls, got %d", upstream.calls)
		}
	})

	t.Run("failed refetch falls back to the stale value", func(t *testing.T) {
		upstream := &stubProvider{quote: Quote{Price: price, Currency: "USD"}}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		base := time.Now()
		cached.now = func() time.Time { return base }
		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		upstream.err = errors.New("upstream down")
		cached.now = func() time.Time { return base.Add(10 * time.Minute) }

		quote, err := cached.CurrentPrice(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Expected stale fallback, got error: %v", err)
		}
		if !quote.Price.Equal(price) {
			t.Errorf("Price = %s, want stale %s", quote.Price, price)
		}
	})

	t.Run("failure with empty cache propagates", func(t *testing.T) {
		upstream := &stubProvider{err: errors.New("upstream down")}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err == nil {
			t.Fatal("Expected error with empty cache and failing upstream")
		}
	})

	t.Run("symbols cache independently", func(t *testing.T) {
		upstream := &stubProvider{quote: Quote{Price: price, Currency: "USD"}}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		if _, err := cached.CurrentPrice(context.Background(), "AAPL"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}
		if _, err := cached.CurrentPrice(context.Background(), "MSFT"); err != nil {
			t.Fatalf("CurrentPrice() returned unexpected error: %v", err)
		}

		if upstream.calls != 2 {
			t.Errorf("Expected 2 upstream calls for 2 symbols, got %d", upstream.calls)
		}
	})
}

// TestCachedProvider_Rate tests the FX rate window, which is wider than the
// price window.
func TestCachedProvider_Rate(t *testing.T) {
	rate := decimal.RequireFromString("0.92")

	t.Run("rate window outlives the price window", func(t *testing.T) {
		upstream := &stubProvider{rate: rate}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		base := time.Now()
		cached.now = func() time.Time { return base }
		if _, _, err := cached.Rate(context.Background(), "USD", "EUR"); err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}

		// 30 minutes later: stale for a price, fresh for a rate.
		cached.now = func() time.Time { return base.Add(30 * time.Minute) }
		got, _, err := cached.Rate(context.Background(), "USD", "EUR")
		if err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}

		if upstream.calls != 1 {
			t.Errorf("Expected 1 upstream call, got %d", upstream.calls)
		}
		if !got.Equal(rate) {
			t.Errorf("Rate = %s, want %s", got, rate)
		}
	})

	t.Run("expired rate refetches", func(t *testing.T) {
		upstream := &stubProvider{rate: rate}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		base := time.Now()
		cached.now = func() time.Time { return base }
		if _, _, err := cached.Rate(context.Background(), "USD", "EUR"); err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}

		cached.now = func() time.Time { return base.Add(2 * time.Hour) }
		if _, _, err := cached.Rate(context.Background(), "USD", "EUR"); err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}

		if upstream.calls != 2 {
			t.Errorf("Expected 2 upstream calls, got %d", upstream.calls)
		}
	})

	t.Run("currency pairs cache independently", func(t *testing.T) {
		upstream := &stubProvider{rate: rate}
		cached := NewCachedProvider(upstream, upstream, upstream, 5*time.Minute, time.Hour)

		if _, _, err := cached.Rate(context.Background(), "USD", "EUR"); err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}
		if _, _, err := cached.Rate(context.Background(), "EUR", "USD"); err != nil {
			t.Fatalf("Rate() returned unexpected error: %v", err)
		}

		if upstream.calls != 2 {
			t.Errorf("Expected 2 upstream calls for 2 pairs, got %d", upstream.calls)
		}
	})
}
