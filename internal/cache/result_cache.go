package cache

import (
	"sync"
	"time"

	"fitforge/coach-app/internal/domain"
)

// Scope identifies which read the cached value memoizes.
type Scope string

const (
	ScopeToday Scope = "today"
	ScopeWeek  Scope = "week"
)

// ResultCache is a short-lived, in-process memoization of day and week
// reads, keyed by (userID, scope). It is strictly read-through: a miss
// triggers a store read in the caller, never a generation. Losing it is
// always safe. Instances are injected, never ambient.
type ResultCache struct {
	mu       sync.RWMutex
	entries  map[cacheKey]cacheEntry
	todayTTL time.Duration
	weekTTL  time.Duration
	now      func() time.Time
}

type cacheKey struct {
	userID string
	scope  Scope
}

type cacheEntry struct {
	days      []domain.WorkoutDay
	tag       string
	expiresAt time.Time
}

// New creates a ResultCache with the given scope TTLs.
func New(todayTTL, weekTTL time.Duration) *ResultCache {
	return &ResultCache{
		entries:  make(map[cacheKey]cacheEntry),
		todayTTL: todayTTL,
		weekTTL:  weekTTL,
		now:      time.Now,
	}
}

// WithClock substitutes the time source, for tests.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// Get returns the cached rows for the key, or ok=false on miss, expiry, or
// a tag mismatch. The tag names what the value memoizes (the date for the
// today scope, the week's start date for the week scope), so an entry from
// before a day or week rollover is a miss, not a stale hit.
func (c *ResultCache) Get(userID string, scope Scope, tag string) ([]domain.WorkoutDay, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey{userID, scope}]
	c.mu.RUnlock()

	if !ok || entry.tag != tag || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.days, true
}

// Set stores rows under the key and tag with the scope's TTL.
func (c *ResultCache) Set(userID string, scope Scope, tag string, days []domain.WorkoutDay) {
	ttl := c.todayTTL
	if scope == ScopeWeek {
		ttl = c.weekTTL
	}

	c.mu.Lock()
	c.entries[cacheKey{userID, scope}] = cacheEntry{
		days:      days,
		tag:       tag,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops every scope for the user. The orchestrator calls this
// on each terminal transition so stale rows never outlive a state change.
func (c *ResultCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, cacheKey{userID, ScopeToday})
	delete(c.entries, cacheKey{userID, ScopeWeek})
	c.mu.Unlock()
}
