package stats

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// cacheEntry holds one cached fetch result
type cacheEntry struct {
	result    map[string][]Row
	expiresAt time.Time
}

// CachedSource wraps a Source with a TTL cache keyed by the fetch window.
// Multiple forecasters sharing input entities hit the recorder once per
// window within the TTL. State lookups are never cached.
type CachedSource struct {
	inner Source
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCachedSource wraps inner with a TTL cache. A non-positive TTL returns
// inner unchanged.
func NewCachedSource(inner Source, ttl time.Duration) Source {
	if ttl <= 0 {
		return inner
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

func cacheKey(entityIDs []string, start, end time.Time, period string, types []string) string {
	ids := make([]string, len(entityIDs))
	copy(ids, entityIDs)
	sort.Strings(ids)

	ts := make([]string, len(types))
	copy(ts, types)
	sort.Strings(ts)

	return strings.Join([]string{
		strings.Join(ids, ","),
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		period,
		strings.Join(ts, ","),
	}, "|")
}

// Fetch serves from cache when a fresh entry exists, otherwise delegates.
func (c *CachedSource) Fetch(ctx context.Context, entityIDs []string, start, end time.Time,
	period string, types []string,
) (map[string][]Row, error) {
	key := cacheKey(entityIDs, start, end, period, types)
	now := time.Now()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && now.Before(entry.expiresAt) {
		result := entry.result
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	result, err := c.inner.Fetch(ctx, entityIDs, start, end, period, types)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{result: result, expiresAt: now.Add(c.ttl)}
	// Drop expired entries opportunistically; fetch windows move forward
	// every cycle so the map would otherwise grow without bound.
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	return result, nil
}

// HasState delegates to the inner source.
func (c *CachedSource) HasState(ctx context.Context, entityID string) (bool, error) {
	return c.inner.HasState(ctx, entityID)
}
