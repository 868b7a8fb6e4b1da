package secrets

import (
	"sync"
	"time"

	"github.com/avolkovs/secretlink/internal/server/models"
)

// ListingCache is a short-lived, process-local cache of decrypted owner
// listings, keyed by owner id. Entries older than the TTL are evicted on
// read; every mutation affecting an owner invalidates that owner's entry.
// Entries may therefore be stale by at most the TTL window, and only for
// changes (natural expiry) that bypass the mutation paths.
type ListingCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]listingEntry
}

type listingEntry struct {
	summaries  []models.SecretSummary
	capturedAt time.Time
}

func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]listingEntry),
	}
}

// Get returns the cached listing for ownerID if it is younger than the TTL.
// A stale entry is evicted and reported as a miss.
func (c *ListingCache) Get(ownerID string) ([]models.SecretSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ownerID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.capturedAt) >= c.ttl {
		delete(c.entries, ownerID)
		return nil, false
	}
	return e.summaries, true
}

// Set stores a freshly captured listing. Last writer for a key wins.
func (c *ListingCache) Set(ownerID string, summaries []models.SecretSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ownerID] = listingEntry{summaries: summaries, capturedAt: c.now()}
}

// Invalidate unconditionally removes the owner's entry.
func (c *ListingCache) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, ownerID)
}
