package secrets

import (
	"testing"
	"time"

	"github.com/avolkovs/secretlink/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCache_HitWithinTTL(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := NewListingCache(60 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("alice", []models.SecretSummary{{ID: "s1"}})

	now = now.Add(59 * time.Second)
	got, ok := c.Get("alice")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestListingCache_StaleEntryEvictedOnRead(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := NewListingCache(60 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("alice", []models.SecretSummary{{ID: "s1"}})

	now = now.Add(60 * time.Second)
	_, ok := c.Get("alice")
	assert.False(t, ok)

	// the stale entry must be gone even if the clock moves back
	now = now.Add(-60 * time.Second)
	_, ok = c.Get("alice")
	assert.False(t, ok)
}

func TestListingCache_InvalidateIsUnconditional(t *testing.T) {
	t.Parallel()

	c := NewListingCache(60 * time.Second)
	c.Set("alice", []models.SecretSummary{{ID: "s1"}})
	c.Set("bob", []models.SecretSummary{{ID: "s2"}})

	c.Invalidate("alice")

	_, ok := c.Get("alice")
	assert.False(t, ok)

	_, ok = c.Get("bob")
	assert.True(t, ok, "invalidation must not touch other owners")

	// invalidating a missing key is a no-op
	c.Invalidate("nobody")
}
