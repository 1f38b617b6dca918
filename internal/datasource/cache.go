package datasource

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// resultCache is a short-TTL cache over query results. It exists to absorb
// the rerun-heavy interaction model of the dashboard: every button press
// replays the same filter queries, and only the tick fetch for a newly
// selected group should reach the warehouse.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	table   *Table
	expires time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *resultCache) get(key string) (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.table, true
}

func (c *resultCache) set(key string, t *Table) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{table: t, expires: c.now().Add(c.ttl)}
}

// clear drops every cached result. Used by the refresh endpoint.
func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// cacheKey fingerprints a query and its arguments.
func cacheKey(name, sql string, args []interface{}) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('|')
	b.WriteString(sql)
	for _, a := range args {
		fmt.Fprintf(&b, "|%v", a)
	}
	return b.String()
}
