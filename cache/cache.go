// Package cache implements time-bounded memoization of orchestrator outputs
// keyed by a message + conversation-state fingerprint. The TTL is short by
// design: it captures immediate repeats (double-submits, client retries)
// without serving stale content across genuinely new turns.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/core"
)

// DefaultTTL is the default entry lifetime.
const DefaultTTL = 2 * time.Minute

// Entry is one memoized response. Created never changes; eviction compares
// against it, so a hit does not extend an entry's life.
type Entry struct {
	Key     string
	Value   string
	Created time.Time
	TTL     time.Duration
}

// expired reports whether the entry is past its lifetime at now.
func (e *Entry) expired(now time.Time) bool {
	return now.After(e.Created.Add(e.TTL))
}

// Options configures a Cache.
type Options struct {
	// TTL is the entry lifetime; DefaultTTL if zero.
	TTL time.Duration
	// MaxEntries bounds memory via LRU eviction; 0 means unbounded.
	MaxEntries int
}

// Cache is a TTL + LRU bounded response cache, safe for concurrent use.
// Eviction is lazy: expiry is checked on lookup, the LRU bound on insert.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	ll         *list.List               // front = most recently used
	entries    map[string]*list.Element // key -> element holding *Entry
}

// New constructs a Cache with optional overrides.
func New(optFns ...func(o *Options)) *Cache {
	opts := Options{TTL: DefaultTTL, MaxEntries: 1024}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Cache{
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		ll:         list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Key derives the cache key from the normalized user message, the
// conversation-state fingerprint and the current mode.
func Key(text, fingerprint string, mode core.Mode) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:16]) + ":" + fingerprint + ":" + string(mode)
}

// Fingerprint condenses the conversational state into a short hash of the
// message count and the last message content.
func Fingerprint(messageCount int, lastMessage string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%s", messageCount, lastMessage))
	return hex.EncodeToString(sum[:8])
}

// Get returns the cached value for key. Expired entries are evicted on the
// spot and reported as misses; hits refresh LRU recency.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	entry := el.Value.(*Entry)
	if entry.expired(time.Now()) {
		c.removeElement(el)
		return "", false
	}
	c.ll.MoveToFront(el)
	return entry.Value, true
}

// Put stores value under key, replacing any existing entry and evicting the
// least recently used entry if the size bound is exceeded.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.ll.MoveToFront(el)
		entry := el.Value.(*Entry)
		entry.Value = value
		entry.Created = time.Now()
		return
	}

	el := c.ll.PushFront(&Entry{Key: key, Value: value, Created: time.Now(), TTL: c.ttl})
	c.entries[key] = el

	if c.maxEntries > 0 && c.ll.Len() > c.maxEntries {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Len returns the number of retained entries, expired ones included until
// their next lookup.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Purge drops all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.entries = make(map[string]*list.Element)
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.entries, el.Value.(*Entry).Key)
}
