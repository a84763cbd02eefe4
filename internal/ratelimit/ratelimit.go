// Package ratelimit is the single shared concurrency primitive external
// callers use: one token bucket per external host, per §5's
// shared-resource policy ("the only shared mutable resource is the
// MB/provider rate limiter").
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter hands out one *rate.Limiter per host, lazily created on
// first use and shared by every caller that asks for the same host
// afterward.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// New builds a HostLimiter applying rps requests/second with the given
// burst (at least 1) to every distinct host it is asked about.
func New(rps float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), h.burst)
		h.limiters[host] = l
	}
	return l
}

// Wait blocks until host's bucket has a token available or ctx is
// cancelled.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.limiterFor(host).Wait(ctx)
}
