// Package ratelimit bounds the frequency of mutating secret operations per
// requester identity with process-local token buckets.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/avolkovs/secretlink/internal/logging"
	"golang.org/x/time/rate"
)

// AnonymousKey is the fallback identity for unauthenticated requesters.
const AnonymousKey = "anonymous"

// Limiter keeps one token bucket per key. The budget refills continuously at
// ops/window and allows bursts up to the full budget. Counters live in this
// process only; sharding across processes needs a shared counter store.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	logger  logging.Logger
}

// New creates a limiter allowing ops operations per window for each key.
func New(ops int, window time.Duration, logger logging.Logger) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(ops) / window.Seconds()),
		burst:   ops,
		logger:  logger.With("module", "ratelimit"),
	}
}

// Allow reports whether the operation for key fits the budget. The limiter
// itself never blocks a request for any other reason: an internal fault is
// logged and treated as allow (fail open).
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error(ctx, "limiter fault, allowing request", "panic", p)
			allowed = true
		}
	}()

	if key == "" {
		key = AnonymousKey
	}

	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}
