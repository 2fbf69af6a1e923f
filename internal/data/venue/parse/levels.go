// Package parse holds the wire-level helpers shared by the venue adapters:
// lenient price level decoding, side validation, status codes and timestamps.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

var (
	ErrMissingSide = errors.New("side missing")
	ErrInvalidSide = errors.New("side is not an array")
	ErrEmptySide   = errors.New("side is empty")
)

// Levels converts raw [price, size, ...] tuples into price levels.
// Tuples that are not arrays, have fewer than two elements, carry values that
// do not decode as decimals, or are not strictly positive are dropped.
// Extra trailing elements are ignored.
func Levels(raw []json.RawMessage) []types.PriceLevel {
	levels := make([]types.PriceLevel, 0, len(raw))
	for _, r := range raw {
		level, ok := level(r)
		if !ok {
			continue
		}
		levels = append(levels, level)
	}
	return levels
}

func level(raw json.RawMessage) (types.PriceLevel, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 2 {
		return types.PriceLevel{}, false
	}
	price, ok := positive(fields[0])
	if !ok {
		return types.PriceLevel{}, false
	}
	size, ok := positive(fields[1])
	if !ok {
		return types.PriceLevel{}, false
	}
	return types.PriceLevel{Price: price, Size: size}, true
}

// positive decodes a quoted or bare JSON number and reports whether it is a
// finite value greater than zero.
func positive(raw json.RawMessage) (float64, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return 0, false
	}
	if !d.IsPositive() {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	return f, true
}

// Side validates one side of a book container. An absent, null, non-array or
// empty side is an error; the individual levels are not inspected here.
func Side(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrMissingSide
	}
	var levels []json.RawMessage
	if err := json.Unmarshal(trimmed, &levels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSide, err)
	}
	if len(levels) == 0 {
		return nil, ErrEmptySide
	}
	return levels, nil
}

// SortBook orders bids by price descending and asks by price ascending.
func SortBook(bids, asks []types.PriceLevel) {
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
}
