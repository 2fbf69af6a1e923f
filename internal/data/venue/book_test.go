package venue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/spreadscan/internal/data/venue/parse"
	"github.com/sawpanic/spreadscan/internal/data/venue/symbols"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
)

var fixedNow = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus(types.VenueBybit, "0", "OK", "10006"))
	assert.NoError(t, CheckStatus(types.VenueBybit, "", "", "10006"))

	err := CheckStatus(types.VenueBybit, "10006", "Too many visits!", "10006")
	assert.ErrorIs(t, err, types.ErrRateLimited)

	err = CheckStatus(types.VenueOKX, "51001", "Instrument ID does not exist", "50011")
	require.ErrorIs(t, err, types.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "Instrument ID does not exist")
}

func TestBuild_SortsAndStamps(t *testing.T) {
	raw := RawBook{
		Bids:      json.RawMessage(`[["64900","1"],["65000","2"],["bad","1"]]`),
		Asks:      json.RawMessage(`[["65200","1"],["65100","2"],["65300","0"]]`),
		Timestamp: json.RawMessage(`1700000000123`),
	}

	book, err := Build(types.VenueOKX, raw, "btcusdt", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, types.VenueOKX, book.Venue)
	assert.Equal(t, "BTC/USDT", book.Symbol)
	assert.Equal(t, []types.PriceLevel{{Price: 65000, Size: 2}, {Price: 64900, Size: 1}}, book.Bids)
	assert.Equal(t, []types.PriceLevel{{Price: 65100, Size: 2}, {Price: 65200, Size: 1}}, book.Asks)
	assert.Equal(t, int64(1700000000123), book.Timestamp.UnixMilli())
}

func TestBuild_EmptySurvivorsStillSucceed(t *testing.T) {
	raw := RawBook{
		Bids: json.RawMessage(`[["0","1"],["x","1"]]`),
		Asks: json.RawMessage(`[["65100","1"]]`),
	}

	book, err := Build(types.VenueBybit, raw, "BTC/USDT", fixedNow)
	require.NoError(t, err)
	assert.Empty(t, book.Bids)
	assert.Len(t, book.Asks, 1)
	assert.Equal(t, fixedNow(), book.Timestamp)
}

func TestBuild_Failures(t *testing.T) {
	good := json.RawMessage(`[["1","1"]]`)

	tests := []struct {
		name string
		raw  RawBook
		sym  string
		is   error
	}{
		{"missing bids", RawBook{Asks: good}, "BTC/USDT", parse.ErrMissingSide},
		{"asks wrong type", RawBook{Bids: good, Asks: json.RawMessage(`{"a":1}`)}, "BTC/USDT", parse.ErrInvalidSide},
		{"empty bids", RawBook{Bids: json.RawMessage(`[]`), Asks: good}, "BTC/USDT", parse.ErrEmptySide},
		{"bad timestamp", RawBook{Bids: good, Asks: good, Timestamp: json.RawMessage(`"later"`)}, "BTC/USDT", types.ErrMalformedPayload},
		{"unsupported symbol", RawBook{Bids: good, Asks: good}, "DOGEUSDT", symbols.ErrUnsupportedSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(types.VenueOKX, tt.raw, tt.sym, fixedNow)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}
