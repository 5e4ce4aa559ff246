package guard

import (
	"sync"

	"gitlab.com/navguard/navguard"
)

// DecisionCache is the in-memory session cache of verdicts keyed by
// hostname. Concurrent attempts read and write it freely; writes are
// idempotent overwrites so last write for a key wins.
type DecisionCache struct {
	mu      sync.RWMutex
	entries map[string]navguard.CachedDecision
	events  navguard.EventSink
}

// NewDecisionCache with the sink invalidations are logged to
func NewDecisionCache(events navguard.EventSink) *DecisionCache {
	if events == nil {
		events = navguard.NopSink{}
	}
	return &DecisionCache{
		entries: make(map[string]navguard.CachedDecision),
		events:  events,
	}
}

// Lookup a prior decision for key
func (c *DecisionCache) Lookup(key string) (navguard.CachedDecision, bool) {
	c.mu.RLock()
	dec, ok := c.entries[key]
	c.mu.RUnlock()
	return dec, ok
}

// Store overwrites any prior entry for key
func (c *DecisionCache) Store(key string, verdict navguard.Verdict, origin navguard.DecisionOrigin) {
	c.mu.Lock()
	c.entries[key] = navguard.CachedDecision{Key: key, Verdict: verdict, Origin: origin}
	c.mu.Unlock()
}

// InvalidateAll drops every entry. Stale allows must never survive a
// credential or endpoint change, so there is no per-key variant.
func (c *DecisionCache) InvalidateAll(reason string) {
	c.mu.Lock()
	count := len(c.entries)
	c.entries = make(map[string]navguard.CachedDecision)
	c.mu.Unlock()

	c.events.Emit(navguard.Event{
		Name:    navguard.EvtCacheInvalidated,
		Details: map[string]interface{}{"reason": reason, "dropped": count},
	})
}

// Len is used by tests and the events command
func (c *DecisionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
