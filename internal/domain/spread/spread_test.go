package spread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

func p(v float64) *float64 { return &v }

func buildBook(bids, asks [][2]float64) *types.OrderBook {
	book := &types.OrderBook{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Venue:     types.VenueBybit,
		Symbol:    "BTC/USDT",
	}
	for _, b := range bids {
		book.Bids = append(book.Bids, types.PriceLevel{Price: b[0], Size: b[1]})
	}
	for _, a := range asks {
		book.Asks = append(book.Asks, types.PriceLevel{Price: a[0], Size: a[1]})
	}
	return book
}

func TestBestPrices_TopOfBook(t *testing.T) {
	book := buildBook(
		[][2]float64{{65000, 1.2}, {64900, 0.7}},
		[][2]float64{{65100, 0.4}, {65200, 0.6}},
	)

	top := BestPrices(book)
	require.NotNil(t, top.Bid)
	require.NotNil(t, top.Ask)
	assert.Equal(t, 65000.0, *top.Bid)
	assert.Equal(t, 65100.0, *top.Ask)
}

func TestBestPrices_EmptySides(t *testing.T) {
	noBids := BestPrices(buildBook(nil, [][2]float64{{65100, 0.4}}))
	assert.Nil(t, noBids.Bid)
	assert.Equal(t, 65100.0, *noBids.Ask)

	noAsks := BestPrices(buildBook([][2]float64{{65000, 1.2}}, nil))
	assert.Equal(t, 65000.0, *noAsks.Bid)
	assert.Nil(t, noAsks.Ask)

	assert.Equal(t, TopOfBook{}, BestPrices(nil))
}

func TestSpreads(t *testing.T) {
	tests := []struct {
		name     string
		left     TopOfBook
		right    TopOfBook
		wantSell *float64
		wantBuy  *float64
	}{
		{
			name:     "both directions",
			left:     TopOfBook{Bid: p(65010), Ask: p(65020)},
			right:    TopOfBook{Bid: p(65030), Ask: p(65040)},
			wantSell: p(-30),
			wantBuy:  p(10),
		},
		{
			name:    "missing left bid only drops sell",
			left:    TopOfBook{Ask: p(65020)},
			right:   TopOfBook{Bid: p(65030), Ask: p(65040)},
			wantBuy: p(10),
		},
		{
			name:  "asks missing on both sides",
			left:  TopOfBook{Bid: p(65010)},
			right: TopOfBook{Bid: p(65030)},
		},
		{
			name:  "failed right venue",
			left:  TopOfBook{Bid: p(65010), Ask: p(65020)},
			right: TopOfBook{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spreads(tt.left, tt.right)
			assert.Equal(t, tt.wantSell, got.SpreadSell)
			assert.Equal(t, tt.wantBuy, got.SpreadBuy)
		})
	}
}
