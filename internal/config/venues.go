package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/spreadscan/internal/data/venue/bybit"
	"github.com/sawpanic/spreadscan/internal/data/venue/okx"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/net/breaker"
	"github.com/sawpanic/spreadscan/internal/net/client"
	"github.com/sawpanic/spreadscan/internal/net/ratelimit"
)

// VenuesConfig is the transport configuration for every venue.
type VenuesConfig struct {
	Venues  map[types.Venue]VenueConfig `yaml:"venues"`
	HTTP    HTTPConfig                  `yaml:"http"`
	Circuit CircuitConfig               `yaml:"circuit"`
}

// VenueConfig holds the endpoint and request budget for one venue.
type VenueConfig struct {
	BaseURL string  `yaml:"base_url"`
	RPS     float64 `yaml:"rps"`   // requests per second, 0 disables limiting
	Burst   int     `yaml:"burst"` // bucket capacity
}

// HTTPConfig bounds each request.
type HTTPConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	UserAgent      string        `yaml:"user_agent"`
}

// CircuitConfig configures the per-host circuit breakers.
type CircuitConfig struct {
	FailureThreshold uint32        `yaml:"failure_threshold"` // consecutive failures to open
	SuccessThreshold uint32        `yaml:"success_threshold"` // half-open probes
	Timeout          time.Duration `yaml:"timeout"`           // open duration
	Interval         time.Duration `yaml:"interval"`          // closed-state count reset
}

// DefaultVenues returns the compiled-in configuration.
func DefaultVenues() *VenuesConfig {
	cc := client.DefaultConfig()
	bs := breaker.DefaultSettings()

	return &VenuesConfig{
		Venues: map[types.Venue]VenueConfig{
			types.VenueBybit: {BaseURL: bybit.DefaultBaseURL, RPS: 10, Burst: 20},
			types.VenueOKX:   {BaseURL: okx.DefaultBaseURL, RPS: 10, Burst: 20},
		},
		HTTP: HTTPConfig{
			ConnectTimeout: cc.ConnectTimeout,
			ReadTimeout:    cc.ReadTimeout,
			RequestTimeout: cc.RequestTimeout,
			MaxBodyBytes:   cc.MaxBodyBytes,
			UserAgent:      cc.UserAgent,
		},
		Circuit: CircuitConfig{
			FailureThreshold: bs.ConsecutiveFailures,
			SuccessThreshold: bs.MaxRequests,
			Timeout:          bs.Timeout,
			Interval:         bs.Interval,
		},
	}
}

// override mirrors VenuesConfig with raw nodes so that a file only replaces
// the fields it names.
type override struct {
	Venues  map[string]yaml.Node `yaml:"venues"`
	HTTP    yaml.Node            `yaml:"http"`
	Circuit yaml.Node            `yaml:"circuit"`
}

// LoadVenues reads a YAML override file and merges it over DefaultVenues.
func LoadVenues(path string) (*VenuesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venues config: %w", err)
	}

	config, err := ParseVenues(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseVenues merges YAML data over DefaultVenues and validates the result.
func ParseVenues(data []byte) (*VenuesConfig, error) {
	config := DefaultVenues()

	var o override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse venues config: %w", err)
	}

	for name, node := range o.Venues {
		v, err := types.ParseVenue(name)
		if err != nil {
			return nil, fmt.Errorf("venues: %w", err)
		}
		vc := config.Venues[v]
		if err := node.Decode(&vc); err != nil {
			return nil, fmt.Errorf("venue %s: %w", v, err)
		}
		config.Venues[v] = vc
	}
	if !o.HTTP.IsZero() {
		if err := o.HTTP.Decode(&config.HTTP); err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
	}
	if !o.Circuit.IsZero() {
		if err := o.Circuit.Decode(&config.Circuit); err != nil {
			return nil, fmt.Errorf("circuit: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid venues config: %w", err)
	}
	return config, nil
}

// Validate ensures the configuration is usable.
func (c *VenuesConfig) Validate() error {
	for _, v := range types.Venues() {
		vc, ok := c.Venues[v]
		if !ok {
			return fmt.Errorf("venue %s is not configured", v)
		}
		if err := vc.Validate(); err != nil {
			return fmt.Errorf("venue %s: %w", v, err)
		}
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Circuit.Validate(); err != nil {
		return fmt.Errorf("circuit: %w", err)
	}
	return nil
}

// Validate checks a single venue.
func (v *VenueConfig) Validate() error {
	if v.BaseURL == "" {
		return errors.New("base_url cannot be empty")
	}
	u, err := url.Parse(v.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", v.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host: %q", v.BaseURL)
	}
	if v.RPS < 0 {
		return fmt.Errorf("rps cannot be negative, got %g", v.RPS)
	}
	if v.RPS > 0 && v.Burst < 1 {
		return fmt.Errorf("burst must be positive when rps is set, got %d", v.Burst)
	}
	return nil
}

func (h *HTTPConfig) Validate() error {
	if h.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be positive, got %s", h.ConnectTimeout)
	}
	if h.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got %s", h.ReadTimeout)
	}
	if h.RequestTimeout < h.ReadTimeout {
		return fmt.Errorf("request_timeout (%s) must be >= read_timeout (%s)", h.RequestTimeout, h.ReadTimeout)
	}
	if h.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", h.MaxBodyBytes)
	}
	if h.UserAgent == "" {
		return errors.New("user_agent cannot be empty")
	}
	return nil
}

func (c *CircuitConfig) Validate() error {
	if c.FailureThreshold == 0 {
		return errors.New("failure_threshold must be positive")
	}
	if c.SuccessThreshold == 0 {
		return errors.New("success_threshold must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval cannot be negative, got %s", c.Interval)
	}
	return nil
}

// ClientConfig converts the HTTP section for client.New.
func (c *VenuesConfig) ClientConfig() client.Config {
	return client.Config{
		ConnectTimeout: c.HTTP.ConnectTimeout,
		ReadTimeout:    c.HTTP.ReadTimeout,
		RequestTimeout: c.HTTP.RequestTimeout,
		MaxBodyBytes:   c.HTTP.MaxBodyBytes,
		UserAgent:      c.HTTP.UserAgent,
	}
}

// BreakerSettings converts the circuit section for breaker.NewSet.
func (c *VenuesConfig) BreakerSettings() breaker.Settings {
	return breaker.Settings{
		ConsecutiveFailures: c.Circuit.FailureThreshold,
		Interval:            c.Circuit.Interval,
		Timeout:             c.Circuit.Timeout,
		MaxRequests:         c.Circuit.SuccessThreshold,
	}
}

// Limiter builds a limiter with one bucket per venue host. Unknown hosts are
// not limited.
func (c *VenuesConfig) Limiter() *ratelimit.Limiter {
	l := ratelimit.NewLimiter(ratelimit.Limit{})
	for _, vc := range c.Venues {
		u, err := url.Parse(vc.BaseURL)
		if err != nil {
			continue
		}
		l.SetHostLimit(u.Host, ratelimit.Limit{RPS: vc.RPS, Burst: vc.Burst})
	}
	return l
}

// BaseURL returns the configured base URL for v.
func (c *VenuesConfig) BaseURL(v types.Venue) string {
	return c.Venues[v].BaseURL
}
