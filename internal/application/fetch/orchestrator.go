// Package fetch runs one concurrent fetch-and-report cycle across a venue pair.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/spreadscan/internal/data/venue"
	"github.com/sawpanic/spreadscan/internal/data/venue/bybit"
	"github.com/sawpanic/spreadscan/internal/data/venue/okx"
	"github.com/sawpanic/spreadscan/internal/data/venue/symbols"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/domain/spread"
	"github.com/sawpanic/spreadscan/internal/net/client"
	"github.com/sawpanic/spreadscan/internal/telemetry/metrics"
)

// ErrInvalidDepth is returned for a depth below one.
var ErrInvalidDepth = errors.New("depth must be at least 1")

// Pair is the ordered venue pair. Spreads are reported relative to Left.
type Pair struct {
	Left  venue.Adapter
	Right venue.Adapter
}

// DefaultPair returns Bybit on the left and OKX on the right, both using getter.
func DefaultPair(getter client.Getter) Pair {
	return Pair{
		Left:  bybit.NewOrderBookClient(getter),
		Right: okx.NewOrderBookClient(getter),
	}
}

// Outcome is the captured result of one venue fetch: exactly one of Book and
// Err is set.
type Outcome struct {
	Venue   types.Venue
	Book    *types.OrderBook
	Err     error
	Latency time.Duration
}

// Report is the result of one cycle.
type Report struct {
	ID        string
	Symbol    string
	Depth     int
	Left      types.Venue
	Right     types.Venue
	Outcomes  map[types.Venue]Outcome
	Prices    map[types.Venue]spread.TopOfBook
	Spread    spread.PairSpread
	StartedAt time.Time
	Elapsed   time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records fetch and spread metrics on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithClock replaces the clock used for StartedAt and latencies.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator fans a fetch out to both venues of a pair. It never retries
// and imposes no timeout of its own.
type Orchestrator struct {
	pair    Pair
	metrics *metrics.Recorder
	now     func() time.Time
}

// New creates an Orchestrator for pair.
func New(pair Pair, opts ...Option) *Orchestrator {
	o := &Orchestrator{pair: pair, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch requests symbol from both venues concurrently and returns one outcome
// per venue. A venue failure is captured in its Outcome and never affects the
// other venue. The returned error is reserved for invalid input, which is
// rejected before any request, and for ctx ending before both venues finished,
// in which case every outcome is discarded.
func (o *Orchestrator) Fetch(ctx context.Context, symbol string, depth int) (map[types.Venue]Outcome, error) {
	if _, err := symbols.Canonicalize(symbol); err != nil {
		return nil, err
	}
	if depth < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDepth, depth)
	}

	adapters := []venue.Adapter{o.pair.Left, o.pair.Right}
	results := make([]Outcome, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter venue.Adapter) {
			defer wg.Done()
			results[i] = o.fetchOne(ctx, adapter, symbol, depth)
		}(i, adapter)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Fetch cancelled, discarding results")
		return nil, err
	}

	outcomes := make(map[types.Venue]Outcome, len(results))
	for _, r := range results {
		outcomes[r.Venue] = r
	}
	return outcomes, nil
}

func (o *Orchestrator) fetchOne(ctx context.Context, adapter venue.Adapter, symbol string, depth int) Outcome {
	start := o.now()
	book, err := adapter.FetchOrderBook(ctx, symbol, depth)
	if err == nil && book == nil {
		err = types.Malformed(adapter.Venue(), "adapter returned no book", nil)
	}
	out := Outcome{
		Venue:   adapter.Venue(),
		Book:    book,
		Err:     err,
		Latency: o.now().Sub(start),
	}
	if err != nil {
		out.Book = nil
	}

	if o.metrics != nil {
		o.metrics.ObserveFetch(out.Venue, out.Latency, out.Book, out.Err)
	}

	if err != nil {
		log.Warn().
			Err(err).
			Str("venue", string(out.Venue)).
			Str("kind", metrics.ErrorLabel(err)).
			Dur("latency", out.Latency).
			Msg("Venue fetch failed")
	} else {
		log.Info().
			Str("venue", string(out.Venue)).
			Str("symbol", book.Symbol).
			Int("bids", len(book.Bids)).
			Int("asks", len(book.Asks)).
			Dur("latency", out.Latency).
			Msg("Fetched orderbook")
	}
	return out
}

// Report runs Fetch and derives best prices and both spread directions. A
// venue in error contributes no prices, so spreads depending on it are nil.
func (o *Orchestrator) Report(ctx context.Context, symbol string, depth int) (*Report, error) {
	started := o.now()
	id := uuid.NewString()

	canonical, err := symbols.Canonicalize(symbol)
	if err != nil {
		return nil, err
	}

	outcomes, err := o.Fetch(ctx, symbol, depth)
	if err != nil {
		return nil, err
	}

	left, right := o.pair.Left.Venue(), o.pair.Right.Venue()
	prices := make(map[types.Venue]spread.TopOfBook, len(outcomes))
	for v, out := range outcomes {
		prices[v] = spread.BestPrices(out.Book)
	}
	pair := spread.Spreads(prices[left], prices[right])

	if o.metrics != nil {
		o.metrics.ObserveSpread(canonical, pair.SpreadSell, pair.SpreadBuy)
	}

	report := &Report{
		ID:        id,
		Symbol:    canonical,
		Depth:     depth,
		Left:      left,
		Right:     right,
		Outcomes:  outcomes,
		Prices:    prices,
		Spread:    pair,
		StartedAt: started.UTC(),
		Elapsed:   o.now().Sub(started),
	}

	event := log.Info().
		Str("report_id", id).
		Str("symbol", canonical).
		Dur("elapsed", report.Elapsed)
	if pair.SpreadSell != nil {
		event = event.Float64("spread_sell", *pair.SpreadSell)
	}
	if pair.SpreadBuy != nil {
		event = event.Float64("spread_buy", *pair.SpreadBuy)
	}
	event.Msg("Report complete")

	return report, nil
}
