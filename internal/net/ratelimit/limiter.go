package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter provides per-host token bucket rate limiting. Hosts without an
// explicit limit share the default rps and burst.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	overrides map[string]Limit
	def       Limit
}

// Limit is a requests-per-second rate with a burst capacity.
// A non-positive RPS disables limiting for the host.
type Limit struct {
	RPS   float64
	Burst int
}

// NewLimiter creates a limiter with a default limit for unknown hosts.
func NewLimiter(def Limit) *Limiter {
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		overrides: make(map[string]Limit),
		def:       def,
	}
}

// SetHostLimit configures the limit for a single host. It replaces any bucket
// already created for that host.
func (l *Limiter) SetHostLimit(host string, limit Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.overrides[host] = limit
	delete(l.limiters, host)
}

func (l *Limiter) getLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[host]; ok {
		return limiter
	}

	limit, ok := l.overrides[host]
	if !ok {
		limit = l.def
	}

	var limiter *rate.Limiter
	if limit.RPS <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		burst := limit.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(limit.RPS), burst)
	}
	l.limiters[host] = limiter
	return limiter
}

// Allow returns true if a request for host may proceed now.
func (l *Limiter) Allow(host string) bool {
	return l.getLimiter(host).Allow()
}

// Wait blocks until a request for host may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.getLimiter(host).Wait(ctx)
}
