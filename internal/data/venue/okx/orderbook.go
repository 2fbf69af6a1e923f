package okx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/spreadscan/internal/data/venue"
	"github.com/sawpanic/spreadscan/internal/data/venue/parse"
	"github.com/sawpanic/spreadscan/internal/data/venue/symbols"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/net/client"
)

const (
	DefaultBaseURL = "https://www.okx.com"
	booksPath      = "/api/v5/market/books"

	// rateLimitCode is OKX's "requests too frequent" code.
	rateLimitCode parse.Code = "50011"
)

// Option configures an OrderBookClient.
type Option func(*OrderBookClient)

// WithBaseURL points the client at a different host.
func WithBaseURL(baseURL string) Option {
	return func(c *OrderBookClient) { c.baseURL = baseURL }
}

// WithClock replaces the clock used when a payload carries no timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *OrderBookClient) { c.now = now }
}

// OrderBookClient fetches spot order books from the OKX v5 market API
type OrderBookClient struct {
	baseURL string
	getter  client.Getter
	now     func() time.Time
}

var _ venue.Adapter = (*OrderBookClient)(nil)

// NewOrderBookClient creates an OKX adapter on top of getter.
func NewOrderBookClient(getter client.Getter, opts ...Option) *OrderBookClient {
	c := &OrderBookClient{
		baseURL: DefaultBaseURL,
		getter:  getter,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Venue implements venue.Adapter.
func (c *OrderBookClient) Venue() types.Venue { return types.VenueOKX }

// FetchOrderBook retrieves depth levels per side for symbol.
func (c *OrderBookClient) FetchOrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error) {
	_, instID, err := symbols.Resolve(types.VenueOKX, symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("instId", instID)
	params.Set("sz", strconv.Itoa(depth))

	body, err := venue.Get(ctx, c.getter, venue.Request{
		Venue:   types.VenueOKX,
		BaseURL: c.baseURL,
		Path:    booksPath,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	book, err := c.Parse(body, symbol)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("venue", string(types.VenueOKX)).
		Str("symbol", book.Symbol).
		Int("bids", len(book.Bids)).
		Int("asks", len(book.Asks)).
		Time("book_ts", book.Timestamp).
		Msg("Parsed OKX orderbook")

	return book, nil
}

// Parse implements venue.Adapter. The book lives in the first element of
// the data array.
func (c *OrderBookClient) Parse(payload []byte, symbol string) (*types.OrderBook, error) {
	var resp booksResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, types.Malformed(types.VenueOKX, "response is not a JSON object", err)
	}

	if err := venue.CheckStatus(types.VenueOKX, resp.Code, resp.Msg, rateLimitCode); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || bytes.Equal(resp.Data, []byte("null")) {
		return nil, types.Malformed(types.VenueOKX, "missing data array", nil)
	}
	var data []json.RawMessage
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, types.Malformed(types.VenueOKX, "data is not an array", err)
	}
	if len(data) == 0 {
		return nil, types.Malformed(types.VenueOKX, "empty data array", nil)
	}

	var book bookData
	if err := json.Unmarshal(data[0], &book); err != nil || bytes.Equal(bytes.TrimSpace(data[0]), []byte("null")) {
		return nil, types.Malformed(types.VenueOKX, "data entry is not an object", err)
	}

	return venue.Build(types.VenueOKX, venue.RawBook{
		Bids:      book.Bids,
		Asks:      book.Asks,
		Timestamp: book.Ts,
	}, symbol, c.now)
}

// booksResponse is the envelope of GET /api/v5/market/books
type booksResponse struct {
	Code parse.Code      `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// bookData holds one book. Levels are [price, size, deprecated, num_orders].
type bookData struct {
	Asks json.RawMessage `json:"asks"`
	Bids json.RawMessage `json:"bids"`
	Ts   json.RawMessage `json:"ts"` // milliseconds, as a string
}
