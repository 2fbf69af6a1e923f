package venue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sawpanic/spreadscan/internal/data/venue/parse"
	"github.com/sawpanic/spreadscan/internal/data/venue/symbols"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

// RawBook is the venue-located part of a payload that every adapter hands to
// Build: both raw sides and the optional millisecond timestamp.
type RawBook struct {
	Bids      json.RawMessage
	Asks      json.RawMessage
	Timestamp json.RawMessage
}

// CheckStatus classifies a venue status code. Success returns nil, the
// venue's documented throttling code returns KindRateLimited, and any other
// code is a malformed payload carrying the venue's message.
func CheckStatus(v types.Venue, code parse.Code, msg string, rateLimitCode parse.Code) error {
	if code.OK() {
		return nil
	}
	if code == rateLimitCode {
		return types.RateLimited(v, fmt.Sprintf("%s: %s", code, msg))
	}
	return types.Malformed(v, fmt.Sprintf("API error %s: %s", code, msg), nil)
}

// Build validates and normalizes raw into an order book for symbol.
func Build(v types.Venue, raw RawBook, symbol string, now func() time.Time) (*types.OrderBook, error) {
	rawBids, err := parse.Side(raw.Bids)
	if err != nil {
		return nil, types.Malformed(v, "bids", err)
	}
	rawAsks, err := parse.Side(raw.Asks)
	if err != nil {
		return nil, types.Malformed(v, "asks", err)
	}

	bids := parse.Levels(rawBids)
	asks := parse.Levels(rawAsks)
	parse.SortBook(bids, asks)

	ts, err := parse.Millis(raw.Timestamp, now)
	if err != nil {
		return nil, types.Malformed(v, "timestamp", err)
	}

	canonical, err := symbols.Canonicalize(symbol)
	if err != nil {
		return nil, err
	}

	return &types.OrderBook{
		Bids:      bids,
		Asks:      asks,
		Timestamp: ts,
		Venue:     v,
		Symbol:    canonical,
	}, nil
}
