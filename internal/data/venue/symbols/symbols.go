// Package symbols maps user input to canonical trading pairs and canonical
// pairs to each venue's wire symbol. The tables are fixed at compile time.
package symbols

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

var (
	ErrUnsupportedSymbol      = errors.New("unsupported symbol")
	ErrUnsupportedVenueSymbol = errors.New("unsupported venue symbol")
)

var aliases = map[string]string{
	"BTC/USDT": "BTC/USDT",
	"BTC-USDT": "BTC/USDT",
	"BTCUSDT":  "BTC/USDT",
	"ETH/USDT": "ETH/USDT",
	"ETH-USDT": "ETH/USDT",
	"ETHUSDT":  "ETH/USDT",
}

var venueSymbols = map[string]map[types.Venue]string{
	"BTC/USDT": {types.VenueBybit: "BTCUSDT", types.VenueOKX: "BTC-USDT"},
	"ETH/USDT": {types.VenueBybit: "ETHUSDT", types.VenueOKX: "ETH-USDT"},
}

// Canonicalize trims and uppercases input and resolves it to a canonical symbol.
func Canonicalize(input string) (string, error) {
	canonical, ok := aliases[strings.ToUpper(strings.TrimSpace(input))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSymbol, input)
	}
	return canonical, nil
}

// VenueSymbol returns the symbol venue expects for a canonical symbol.
func VenueSymbol(venue types.Venue, canonical string) (string, error) {
	sym, ok := venueSymbols[canonical][venue]
	if !ok {
		return "", fmt.Errorf("%w: %s %q", ErrUnsupportedVenueSymbol, venue, canonical)
	}
	return sym, nil
}

// Resolve canonicalizes input and maps it to venue's wire symbol in one step.
func Resolve(venue types.Venue, input string) (canonical, wire string, err error) {
	canonical, err = Canonicalize(input)
	if err != nil {
		return "", "", err
	}
	wire, err = VenueSymbol(venue, canonical)
	if err != nil {
		return "", "", err
	}
	return canonical, wire, nil
}

// Supported lists the canonical symbols in sorted order.
func Supported() []string {
	out := make([]string, 0, len(venueSymbols))
	for canonical := range venueSymbols {
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
