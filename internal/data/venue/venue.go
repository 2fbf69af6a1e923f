// Package venue defines the adapter contract shared by every exchange and the
// transport step common to all of them.
package venue

import (
	"context"
	"net/url"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/net/client"
)

// Adapter turns one venue's order book endpoint into normalized order books.
type Adapter interface {
	// Venue returns the adapter's fixed identifier.
	Venue() types.Venue
	// Parse converts a raw response body into an order book for symbol.
	Parse(payload []byte, symbol string) (*types.OrderBook, error)
	// FetchOrderBook requests depth levels per side and parses the result.
	FetchOrderBook(ctx context.Context, symbol string, depth int) (*types.OrderBook, error)
}

// Request is one venue GET.
type Request struct {
	Venue   types.Venue
	BaseURL string
	Path    string
	Params  url.Values
}

// Get performs req through getter and classifies transport-level failures.
// Connection errors, timeouts and cancellation become KindTransport; a
// non-2xx status becomes KindHTTPStatus. The returned body has not been
// inspected.
func Get(ctx context.Context, getter client.Getter, req Request) ([]byte, error) {
	resp, err := getter.Get(ctx, req.BaseURL, req.Path, req.Params)
	if err != nil {
		reason := "request failed"
		if ctx.Err() != nil {
			reason = "request cancelled"
		}
		return nil, types.TransportFailure(req.Venue, reason, err)
	}
	if !resp.OK() {
		return nil, types.HTTPStatus(req.Venue, resp.StatusCode, resp.Body)
	}
	return resp.Body, nil
}
