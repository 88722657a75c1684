package infra

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paceboard/platform/internal/domain"
)

// CacheKey identifies one cached resource for one ad-platform account.
type CacheKey struct {
	AccountID uuid.UUID
	Resource  string
}

// CampaignCache is an explicit TTL cache of per-account campaign snapshots,
// shared by the sync writer and the dashboard read path. Entries are refreshed
// on write; a failed sync never touches the cache, so the last-known-good
// snapshot survives platform outages. Expired entries are still returned by
// GetStale for that reason.
type CampaignCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[CacheKey]cacheEntry
}

type cacheEntry struct {
	campaigns []domain.Campaign
	storedAt  time.Time
}

// NewCampaignCache creates a cache with the given TTL.
func NewCampaignCache(ttl time.Duration) *CampaignCache {
	return &CampaignCache{ttl: ttl, entries: make(map[CacheKey]cacheEntry)}
}

// Get returns the cached campaigns for the key if present and fresh.
func (c *CampaignCache) Get(key CacheKey) ([]domain.Campaign, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.campaigns, true
}

// GetStale returns the cached campaigns regardless of age, reporting whether
// the entry is past its TTL.
func (c *CampaignCache) GetStale(key CacheKey) (campaigns []domain.Campaign, stale, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.campaigns, time.Since(e.storedAt) > c.ttl, true
}

// Set stores a snapshot, resetting the entry's age.
func (c *CampaignCache) Set(key CacheKey, campaigns []domain.Campaign) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{campaigns: campaigns, storedAt: time.Now()}
}

// Invalidate removes one entry.
func (c *CampaignCache) Invalidate(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
