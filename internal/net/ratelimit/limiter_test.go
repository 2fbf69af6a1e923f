package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(Limit{RPS: 2, Burst: 2})

	assert.True(t, limiter.Allow("api.bybit.com"), "first request within burst")
	assert.True(t, limiter.Allow("api.bybit.com"), "second request within burst")
	assert.False(t, limiter.Allow("api.bybit.com"), "burst exhausted")
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(Limit{RPS: 1, Burst: 1})

	assert.True(t, limiter.Allow("api.bybit.com"))
	assert.True(t, limiter.Allow("www.okx.com"))
	assert.False(t, limiter.Allow("api.bybit.com"))
	assert.False(t, limiter.Allow("www.okx.com"))
}

func TestLimiter_HostOverride(t *testing.T) {
	limiter := NewLimiter(Limit{RPS: 1, Burst: 1})
	limiter.SetHostLimit("www.okx.com", Limit{RPS: 10, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("www.okx.com"), "request %d", i)
	}
	assert.False(t, limiter.Allow("www.okx.com"))
}

func TestLimiter_DisabledWhenRPSZero(t *testing.T) {
	limiter := NewLimiter(Limit{})

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("127.0.0.1:8080"))
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(Limit{RPS: 0.1, Burst: 1})
	limiter.Allow("slow.example")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := limiter.Wait(ctx, "slow.example")

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
