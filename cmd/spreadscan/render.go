package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sawpanic/spreadscan/internal/application/fetch"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/telemetry/metrics"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type renderFunc func(io.Writer, *fetch.Report) error

func renderer(output string) (renderFunc, error) {
	switch output {
	case outputText:
		return renderText, nil
	case outputJSON:
		return renderJSON, nil
	default:
		return nil, fmt.Errorf("invalid output format: %s (valid: %s, %s)", output, outputText, outputJSON)
	}
}

func renderText(w io.Writer, r *fetch.Report) error {
	fmt.Fprintf(w, "Report for %s (depth=%d)\n", r.Symbol, r.Depth)

	for _, v := range []types.Venue{r.Left, r.Right} {
		out := r.Outcomes[v]
		if out.Err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", v, out.Err)
			continue
		}
		prices := r.Prices[v]
		fmt.Fprintf(w, "%s: best_bid=%s best_ask=%s\n", v, price(prices.Bid), price(prices.Ask))
	}

	if r.Spread.SpreadSell != nil {
		fmt.Fprintf(w, "spreadSell (leftSell - rightBuy): %s\n", price(r.Spread.SpreadSell))
	}
	if r.Spread.SpreadBuy != nil {
		fmt.Fprintf(w, "spreadBuy (rightSell - leftBuy): %s\n", price(r.Spread.SpreadBuy))
	}
	return nil
}

func price(p *float64) string {
	if p == nil {
		return "none"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

type reportView struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Depth     int         `json:"depth"`
	StartedAt time.Time   `json:"started_at"`
	ElapsedMS int64       `json:"elapsed_ms"`
	Venues    []venueView `json:"venues"`
	Spread    spreadView  `json:"spread"`
}

type venueView struct {
	Venue     string     `json:"venue"`
	BestBid   *float64   `json:"best_bid"`
	BestAsk   *float64   `json:"best_ask"`
	Bids      int        `json:"bid_levels"`
	Asks      int        `json:"ask_levels"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	LatencyMS int64      `json:"latency_ms"`
	Error     *errorView `json:"error,omitempty"`
}

type errorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type spreadView struct {
	Sell *float64 `json:"sell"`
	Buy  *float64 `json:"buy"`
}

func renderJSON(w io.Writer, r *fetch.Report) error {
	view := reportView{
		ID:        r.ID,
		Symbol:    r.Symbol,
		Depth:     r.Depth,
		StartedAt: r.StartedAt,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Spread:    spreadView{Sell: r.Spread.SpreadSell, Buy: r.Spread.SpreadBuy},
	}

	for _, v := range []types.Venue{r.Left, r.Right} {
		out := r.Outcomes[v]
		vv := venueView{
			Venue:     v.String(),
			LatencyMS: out.Latency.Milliseconds(),
		}
		if out.Err != nil {
			vv.Error = &errorView{Kind: metrics.ErrorLabel(out.Err), Message: out.Err.Error()}
		}
		if out.Book != nil {
			prices := r.Prices[v]
			vv.BestBid, vv.BestAsk = prices.Bid, prices.Ask
			vv.Bids, vv.Asks = len(out.Book.Bids), len(out.Book.Asks)
			ts := out.Book.Timestamp
			vv.Timestamp = &ts
		}
		view.Venues = append(view.Venues, vv)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
