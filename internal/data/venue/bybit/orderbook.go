package bybit

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
	DefaultBaseURL = "https://api.bybit.com"
	orderBookPath  = "/v5/market/orderbook"

	// rateLimitCode is Bybit's documented "too many visits" retCode.
	rateLimitCode parse.Code = "10006"
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

// OrderBookClient fetches spot order books from Bybit's v5 market API
type OrderBookClient struct {
	baseURL string
	getter  client.Getter
	now     func() time.Time
}

var _ venue.Adapter = (*OrderBookClient)(nil)

// NewOrderBookClient creates a Bybit adapter on top of getter.
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
func (c *OrderBookClient) Venue() types.Venue { return types.VenueBybit }

// FetchOrderBook retrieves depth levels per side for symbol.
func (c *OrderBookClient) FetchOrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error) {
	_, wire, err := symbols.Resolve(types.VenueBybit, symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", wire)
	params.Set("limit", strconv.Itoa(depth))

	body, err := venue.Get(ctx, c.getter, venue.Request{
		Venue:   types.VenueBybit,
		BaseURL: c.baseURL,
		Path:    orderBookPath,
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
		Str("venue", string(types.VenueBybit)).
		Str("symbol", book.Symbol).
		Int("bids", len(book.Bids)).
		Int("asks", len(book.Asks)).
		Time("book_ts", book.Timestamp).
		Msg("Parsed Bybit orderbook")

	return book, nil
}

// Parse implements venue.Adapter.
func (c *OrderBookClient) Parse(payload []byte, symbol string) (*types.OrderBook, error) {
	var resp bookResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, types.Malformed(types.VenueBybit, "response is not a JSON object", err)
	}

	if err := venue.CheckStatus(types.VenueBybit, resp.RetCode, resp.RetMsg, rateLimitCode); err != nil {
		return nil, err
	}

	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return nil, types.Malformed(types.VenueBybit, "missing result", nil)
	}
	var result bookResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, types.Malformed(types.VenueBybit, "result is not an object", err)
	}

	return venue.Build(types.VenueBybit, venue.RawBook{
		Bids:      result.Bids,
		Asks:      result.Asks,
		Timestamp: result.Ts,
	}, symbol, c.now)
}

// bookResponse is the envelope of GET /v5/market/orderbook
type bookResponse struct {
	RetCode parse.Code      `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

// bookResult holds the book itself. Levels are [price, size] string pairs.
type bookResult struct {
	Symbol string          `json:"s"`
	Bids   json.RawMessage `json:"b"`
	Asks   json.RawMessage `json:"a"`
	Ts     json.RawMessage `json:"ts"`
}
