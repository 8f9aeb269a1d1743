// Package scheduler runs the background quote refresh: on a cron schedule
// it fetches a fresh price for every held symbol, records it on the holding
// rows, and warms the exchange rate for every holding-to-base-currency
// conversion, so metrics reads always have recent data without ever
// fetching inline.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vishal3152/port-api/internal/service"
)

// maxConcurrentFetches bounds the fan-out against the quote provider.
const maxConcurrentFetches = 4

// refreshTimeout caps one full refresh pass.
const refreshTimeout = 2 * time.Minute

// Scheduler drives periodic holding price refreshes.
type Scheduler struct {
	cron     *cron.Cron
	holdings *service.HoldingService
	schedule string
}

// New creates a Scheduler refreshing on the given cron schedule
// (e.g. "@every 5m").
func New(holdings *service.HoldingService, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		holdings: holdings,
		schedule: schedule,
	}
}

// Start registers the refresh job and starts the cron loop. An immediate
// first refresh runs in the background so holdings created before a restart
// get prices without waiting a full interval.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refreshAll); err != nil {
		return err
	}

	s.cron.Start()
	go s.refreshAll()

	return nil
}

// Stop stops the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// refreshAll fetches quotes for all held symbols and the exchange rates
// their portfolios convert through, with bounded concurrency. Individual
// fetch failures are logged and skipped; one bad ticker must not starve
// the rest of the book.
func (s *Scheduler) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	symbols, err := s.holdings.HeldSymbols()
	if err != nil {
		log.Printf("price refresh: failed to list held symbols: %v", err)
		return
	}
	pairs, err := s.holdings.CurrencyPairs()
	if err != nil {
		log.Printf("rate refresh: failed to list currency pairs: %v", err)
		return
	}
	if len(symbols) == 0 && len(pairs) == 0 {
		return
	}

	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, symbol := range symbols {
		g.Go(func() error {
			if err := s.holdings.RefreshSymbol(ctx, symbol); err != nil {
				log.Printf("price refresh: %s: %v", symbol, err)
			}
			return nil
		})
	}
	for _, pair := range pairs {
		g.Go(func() error {
			if err := s.holdings.RefreshRate(ctx, pair.From, pair.To); err != nil {
				log.Printf("rate refresh: %s/%s: %v", pair.From, pair.To, err)
			}
			return nil
		})
	}

	// Errors are handled per fetch; Wait only gates completion.
	_ = g.Wait()

	log.Printf("refresh: %d symbols, %d currency pairs in %s", len(symbols), len(pairs), time.Since(start))
}
