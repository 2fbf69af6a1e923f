package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

// Recorder holds the Prometheus metrics for fetch cycles
type Recorder struct {
	FetchDuration *prometheus.HistogramVec
	FetchErrors   *prometheus.CounterVec
	BookLevels    *prometheus.GaugeVec
	Spread        *prometheus.GaugeVec
	Reports       prometheus.Counter
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spreadscan_fetch_duration_seconds",
				Help:    "Duration of a single venue order book fetch",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 20.0},
			},
			[]string{"venue", "result"},
		),

		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spreadscan_fetch_errors_total",
				Help: "Venue fetch failures by error kind",
			},
			[]string{"venue", "kind"},
		),

		BookLevels: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadscan_book_levels",
				Help: "Valid price levels in the last parsed book",
			},
			[]string{"venue", "side"},
		),

		Spread: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadscan_spread",
				Help: "Last computed cross-venue spread in quote currency",
			},
			[]string{"symbol", "direction"},
		),

		Reports: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spreadscan_reports_total",
				Help: "Completed fetch-and-report cycles",
			},
		),
	}

	reg.MustRegister(r.FetchDuration, r.FetchErrors, r.BookLevels, r.Spread, r.Reports)
	return r
}

// ObserveFetch records one venue fetch outcome.
func (r *Recorder) ObserveFetch(venue types.Venue, latency time.Duration, book *types.OrderBook, err error) {
	if err != nil {
		r.FetchDuration.WithLabelValues(string(venue), "error").Observe(latency.Seconds())
		r.FetchErrors.WithLabelValues(string(venue), ErrorLabel(err)).Inc()
		return
	}
	r.FetchDuration.WithLabelValues(string(venue), "ok").Observe(latency.Seconds())
	if book != nil {
		r.BookLevels.WithLabelValues(string(venue), "bid").Set(float64(len(book.Bids)))
		r.BookLevels.WithLabelValues(string(venue), "ask").Set(float64(len(book.Asks)))
	}
}

// ObserveSpread records whichever spread directions are available.
func (r *Recorder) ObserveSpread(symbol string, sell, buy *float64) {
	if sell != nil {
		r.Spread.WithLabelValues(symbol, "sell").Set(*sell)
	}
	if buy != nil {
		r.Spread.WithLabelValues(symbol, "buy").Set(*buy)
	}
	r.Reports.Inc()
}

// ErrorLabel maps an error to a bounded label value.
func ErrorLabel(err error) string {
	if kind := types.KindOf(err); kind != "" {
		if kind == types.KindTransport && errors.Is(err, context.Canceled) {
			return "cancelled"
		}
		return string(kind)
	}
	return "input"
}

// WriteTextfile dumps everything gathered by g in the text exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
