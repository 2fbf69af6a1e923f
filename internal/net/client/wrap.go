package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/spreadscan/internal/net/breaker"
	"github.com/sawpanic/spreadscan/internal/net/ratelimit"
)

// Response is a fully read HTTP response. Non-2xx statuses are returned as
// responses, not errors; classifying them is the caller's job.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Getter issues a GET against baseURL+path with the given query parameters.
type Getter interface {
	Get(ctx context.Context, baseURL, path string, params url.Values) (*Response, error)
}

// Config bounds every request made by a Client.
type Config struct {
	ConnectTimeout time.Duration // dial and TLS handshake
	ReadTimeout    time.Duration // waiting for response headers
	RequestTimeout time.Duration // whole request including body
	MaxBodyBytes   int64
	UserAgent      string
}

// DefaultConfig returns the timeouts used against public venue endpoints.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    10 * time.Second,
		RequestTimeout: 20 * time.Second,
		MaxBodyBytes:   4 << 20,
		UserAgent:      "spreadscan/1.0",
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithLimiter rate limits requests per host.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithBreakers routes requests through one circuit per host. Transport
// failures and 5xx responses count as circuit failures.
func WithBreakers(s *breaker.Set) Option {
	return func(c *Client) { c.breakers = s }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client is the Getter used by the venue adapters. It never retries.
type Client struct {
	config   Config
	http     *http.Client
	limiter  *ratelimit.Limiter
	breakers *breaker.Set
}

var errServerStatus = errors.New("server error status")

// New creates a Client with bounded connect and read timeouts.
func New(config Config, opts ...Option) *Client {
	dialer := &net.Dialer{
		Timeout:   config.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
	}

	c := &Client{
		config: config,
		http: &http.Client{
			Transport: transport,
			Timeout:   config.RequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements Getter.
func (c *Client) Get(ctx context.Context, baseURL, path string, params url.Values) (*Response, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("invalid request url: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	host := u.Host

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, host); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s: %w", host, err)
		}
	}

	var resp *Response
	do := func() error {
		var err error
		resp, err = c.do(ctx, u)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return errServerStatus
		}
		return nil
	}

	if c.breakers == nil {
		err = do()
	} else {
		err = c.breakers.Execute(host, do)
	}
	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, u *url.URL) (*Response, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var body io.Reader = httpResp.Body
	if c.config.MaxBodyBytes > 0 {
		body = io.LimitReader(httpResp.Body, c.config.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("host", u.Host).
		Str("path", u.Path).
		Int("status", httpResp.StatusCode).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("HTTP GET completed")

	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}
