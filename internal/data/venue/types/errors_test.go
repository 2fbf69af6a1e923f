package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("fetch: %w", RateLimited(VenueBybit, "10006"))

	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.False(t, errors.Is(err, ErrMalformedPayload))
	assert.Equal(t, KindRateLimited, KindOf(err))

	var ve *VenueError
	if assert.True(t, errors.As(err, &ve)) {
		assert.True(t, ve.IsRateLimited())
		assert.Equal(t, VenueBybit, ve.Venue)
	}
}

func TestVenueError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := TransportFailure(VenueOKX, "request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestHTTPStatus_TruncatesExcerpt(t *testing.T) {
	body := []byte(strings.Repeat("x", 500))
	err := HTTPStatus(VenueOKX, 503, body)

	assert.Equal(t, 503, err.StatusCode)
	assert.Len(t, err.Excerpt, MaxExcerpt)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Equal(t, "", string(KindOf(errors.New("plain"))))
}

func TestParseVenue(t *testing.T) {
	v, err := ParseVenue(" OKX ")
	assert.NoError(t, err)
	assert.Equal(t, VenueOKX, v)

	_, err = ParseVenue("binance")
	assert.Error(t, err)
}

func TestOrderBook_BestLevels(t *testing.T) {
	book := &OrderBook{
		Bids: []PriceLevel{{Price: 65000, Size: 1.2}, {Price: 64900, Size: 0.7}},
	}

	bid, ok := book.BestBid()
	assert.True(t, ok)
	assert.Equal(t, 65000.0, bid.Price)

	_, ok = book.BestAsk()
	assert.False(t, ok)

	var nilBook *OrderBook
	_, ok = nilBook.BestBid()
	assert.False(t, ok)
}
