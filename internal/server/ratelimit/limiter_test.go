package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avolkovs/secretlink/internal/logging"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(ops int, window time.Duration) *Limiter {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(ops, window, logger)
}

func TestAllow_BudgetBoundary(t *testing.T) {
	t.Parallel()

	l := newTestLimiter(30, 60*time.Second)
	ctx := context.Background()

	for i := 1; i <= 30; i++ {
		assert.True(t, l.Allow(ctx, "alice"), "call %d within the budget must pass", i)
	}
	assert.False(t, l.Allow(ctx, "alice"), "31st call within the window must be rejected")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	l := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "alice"))
	assert.True(t, l.Allow(ctx, "alice"))
	assert.False(t, l.Allow(ctx, "alice"))

	assert.True(t, l.Allow(ctx, "bob"), "exhausting one key must not affect another")
}

func TestAllow_EmptyKeyFallsBackToAnonymous(t *testing.T) {
	t.Parallel()

	l := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, ""))
	assert.False(t, l.Allow(ctx, AnonymousKey), "empty key and anonymous share one bucket")
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()

	l := newTestLimiter(60, 60*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		l.Allow(ctx, "alice")
	}
	assert.False(t, l.Allow(ctx, "alice"))

	time.Sleep(10 * time.Millisecond)
	assert.True(t, l.Allow(ctx, "alice"), "tokens must refill as the window slides")
}
