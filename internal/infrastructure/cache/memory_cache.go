package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"invoice-dashboard/internal/domain/report"
)

// DefaultMaxEntries bounds the in-memory cache. Report keys include the
// requested amount, so the key space is client controlled.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	data    []byte
	paths   []string
	stored  time.Time
	expires time.Time
}

// InMemoryViewCache is the process local ViewCache used when redis is
// disabled. Values are stored encoded so callers never share slices.
type InMemoryViewCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	tags       map[string]map[string]struct{}
	gens       map[string]uint64
	now        func() time.Time
}

var _ ViewCache = (*InMemoryViewCache)(nil)

func NewInMemoryViewCache(ttl time.Duration) *InMemoryViewCache {
	return &InMemoryViewCache{
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		entries:    make(map[string]memoryEntry),
		tags:       make(map[string]map[string]struct{}),
		gens:       make(map[string]uint64),
		now:        time.Now,
	}
}

func (c *InMemoryViewCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.expiredLocked(entry, c.now()) {
		c.removeLocked(key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached view %s: %w", key, err)
	}
	return true, nil
}

func (c *InMemoryViewCache) Snapshot(_ context.Context, paths ...string) (report.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := make(report.Snapshot, len(paths))
	for _, p := range paths {
		snap[p] = c.gens[p]
	}
	return snap, nil
}

func (c *InMemoryViewCache) Set(_ context.Context, key string, value any, snap report.Snapshot) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode view %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for p, gen := range snap {
		if c.gens[p] != gen {
			return nil
		}
	}

	now := c.now()
	c.sweepLocked(now)
	c.removeLocked(key)
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	entry := memoryEntry{data: data, stored: now}
	if c.ttl > 0 {
		entry.expires = now.Add(c.ttl)
	}
	for p := range snap {
		entry.paths = append(entry.paths, p)
		if c.tags[p] == nil {
			c.tags[p] = make(map[string]struct{})
		}
		c.tags[p][key] = struct{}{}
	}
	c.entries[key] = entry
	return nil
}

// Invalidate drops every view tagged with any of paths and bumps their
// generation so loads that started earlier are not stored.
func (c *InMemoryViewCache) Invalidate(_ context.Context, paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range paths {
		c.gens[p]++
		for key := range c.tags[p] {
			c.removeLocked(key)
		}
		delete(c.tags, p)
	}
	return nil
}

func (c *InMemoryViewCache) expiredLocked(entry memoryEntry, now time.Time) bool {
	return !entry.expires.IsZero() && !now.Before(entry.expires)
}

func (c *InMemoryViewCache) sweepLocked(now time.Time) {
	for key, entry := range c.entries {
		if c.expiredLocked(entry, now) {
			c.removeLocked(key)
		}
	}
}

func (c *InMemoryViewCache) evictOldestLocked() {
	var oldest string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldest == "" || entry.stored.Before(oldestAt) {
			oldest, oldestAt = key, entry.stored
		}
	}
	if oldest != "" {
		c.removeLocked(oldest)
	}
}

// removeLocked deletes key and its tag memberships.
func (c *InMemoryViewCache) removeLocked(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, p := range entry.paths {
		members := c.tags[p]
		delete(members, key)
		if len(members) == 0 {
			delete(c.tags, p)
		}
	}
}
