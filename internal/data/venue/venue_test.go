package venue

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/net/client"
)

type stubGetter struct {
	resp *client.Response
	err  error
	got  url.Values
}

func (s *stubGetter) Get(ctx context.Context, baseURL, path string, params url.Values) (*client.Response, error) {
	s.got = params
	return s.resp, s.err
}

func TestGet_ReturnsBodyOnSuccess(t *testing.T) {
	g := &stubGetter{resp: &client.Response{StatusCode: 200, Body: []byte(`{}`)}}
	params := url.Values{"instId": {"BTC-USDT"}}

	body, err := Get(context.Background(), g, Request{Venue: types.VenueOKX, Params: params})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))
	assert.Equal(t, params, g.got)
}

func TestGet_ClassifiesFailures(t *testing.T) {
	g := &stubGetter{err: errors.New("dial tcp: i/o timeout")}
	_, err := Get(context.Background(), g, Request{Venue: types.VenueBybit})
	assert.ErrorIs(t, err, types.ErrTransport)

	g = &stubGetter{resp: &client.Response{StatusCode: 429, Body: []byte("too many")}}
	_, err = Get(context.Background(), g, Request{Venue: types.VenueBybit})
	require.ErrorIs(t, err, types.ErrHTTPStatus)
	assert.False(t, errors.Is(err, types.ErrRateLimited), "HTTP 429 alone is not a venue rate-limit code")

	var ve *types.VenueError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 429, ve.StatusCode)
	assert.Equal(t, "too many", ve.Excerpt)
}

func TestGet_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := &stubGetter{err: context.Canceled}
	_, err := Get(ctx, g, Request{Venue: types.VenueOKX})
	assert.ErrorIs(t, err, types.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "cancelled")
}
