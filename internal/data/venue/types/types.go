package types

import (
	"fmt"
	"strings"
	"time"
)

// Venue identifies a supported exchange.
type Venue string

const (
	VenueBybit Venue = "bybit"
	VenueOKX   Venue = "okx"
)

// Venues returns every supported venue in pair order.
func Venues() []Venue {
	return []Venue{VenueBybit, VenueOKX}
}

// ParseVenue resolves a user-supplied venue name, case-insensitively.
func ParseVenue(s string) (Venue, error) {
	v := Venue(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Venues() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown venue %q", s)
}

func (v Venue) String() string { return string(v) }

// PriceLevel is a single validated price level. Price and Size are always
// finite and strictly positive.
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook is a normalized snapshot from one venue.
// Bids are sorted by price descending, asks ascending.
type OrderBook struct {
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp time.Time    `json:"timestamp"`
	Venue     Venue        `json:"venue"`
	Symbol    string       `json:"symbol"`
}

// BestBid returns the highest bid, if any.
func (b *OrderBook) BestBid() (PriceLevel, bool) {
	if b == nil || len(b.Bids) == 0 {
		return PriceLevel{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the lowest ask, if any.
func (b *OrderBook) BestAsk() (PriceLevel, bool) {
	if b == nil || len(b.Asks) == 0 {
		return PriceLevel{}, false
	}
	return b.Asks[0], true
}
