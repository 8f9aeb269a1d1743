package service

import (
	"context"
	"errors"
	"log"

	"github.com/vishal3152/port-api/internal/apperrors"
	"github.com/vishal3152/port-api/internal/quotes"
	"github.com/vishal3152/port-api/internal/repository"
)

// HoldingService owns the quote-driven side of the holdings projection:
// writing fresh prices onto holding rows and enriching the placeholder
// company names left by the projection when a position is first opened.
// Ledger-driven mutations live in TransactionService.
type HoldingService struct {
	holdingRepo *repository.HoldingRepository
	prices      quotes.PriceProvider
	rates       quotes.RateProvider
	symbols     quotes.SymbolProvider
}

// NewHoldingService creates a new HoldingService.
// rates and symbols may be nil when no such provider is configured; FX
// refresh and enrichment are skipped in that case.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	prices quotes.PriceProvider,
	rates quotes.RateProvider,
	symbols quotes.SymbolProvider,
) *HoldingService {
	return &HoldingService{
		holdingRepo: holdingRepo,
		prices:      prices,
		rates:       rates,
		symbols:     symbols,
	}
}

// HeldSymbols returns every symbol with at least one open holding.
func (s *HoldingService) HeldSymbols() ([]string, error) {
	return s.holdingRepo.GetHeldSymbols()
}

// CurrencyPairs returns the FX conversions the book currently needs: one
// pair per distinct holding currency and portfolio base currency.
func (s *HoldingService) CurrencyPairs() ([]repository.CurrencyPair, error) {
	return s.holdingRepo.GetCurrencyPairs()
}

// RefreshRate fetches the current exchange rate for one pair, keeping the
// provider cache warm so conversions never trigger an inline fetch.
func (s *HoldingService) RefreshRate(ctx context.Context, from, to string) error {
	if s.rates == nil {
		return nil
	}
	_, _, err := s.rates.Rate(ctx, from, to)
	return err
}

// RefreshSymbol fetches the current price for one symbol and records it on
// every holding of that symbol. Holdings still carrying the placeholder
// company name are enriched from the metadata provider on the same pass.
func (s *HoldingService) RefreshSymbol(ctx context.Context, symbol string) error {
	quote, err := s.prices.CurrentPrice(ctx, symbol)
	if err != nil {
		return err
	}

	if _, err := s.holdingRepo.UpdatePriceBySymbol(ctx, symbol, quote.Price, quote.AsOf); err != nil {
		return err
	}

	if s.symbols == nil {
		return nil
	}

	info, err := s.symbols.LookupSymbol(ctx, symbol)
	if err != nil {
		// Metadata is display-only; a failed lookup must not fail the
		// price refresh.
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			log.Printf("symbol lookup failed for %s: %v", symbol, err)
		}
		return nil
	}

	if info.CompanyName != "" && info.CompanyName != symbol {
		if err := s.holdingRepo.UpdateCompanyNameBySymbol(ctx, symbol, info.CompanyName); err != nil {
			return err
		}
	}

	return nil
}
