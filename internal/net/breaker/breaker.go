// Package breaker keeps one gobreaker circuit per upstream host.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned without calling upstream while a circuit is open.
var ErrOpen = errors.New("circuit open")

// Settings configures every circuit in a Set.
type Settings struct {
	ConsecutiveFailures uint32        // trips the circuit
	Interval            time.Duration // closed-state count reset period
	Timeout             time.Duration // open-state duration before probing
	MaxRequests         uint32        // probes allowed while half-open
}

// DefaultSettings trips after three consecutive failures and probes again
// after thirty seconds.
func DefaultSettings() Settings {
	return Settings{
		ConsecutiveFailures: 3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		MaxRequests:         1,
	}
}

// Set lazily creates one circuit breaker per name.
type Set struct {
	mu       sync.Mutex
	settings Settings
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewSet creates an empty Set.
func NewSet(settings Settings) *Set {
	return &Set{
		settings: settings,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (s *Set) get(name string) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[name]; ok {
		return cb
	}

	threshold := s.settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.settings.MaxRequests,
		Interval:    s.settings.Interval,
		Timeout:     s.settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("host", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	s.breakers[name] = cb
	return cb
}

// Execute runs fn through the named circuit. A non-nil error from fn counts
// as a failure.
func (s *Set) Execute(name string, fn func() error) error {
	_, err := s.get(name).Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// State reports the current state of the named circuit.
func (s *Set) State(name string) string {
	return s.get(name).State().String()
}
