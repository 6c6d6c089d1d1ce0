package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestCache_PutGet(t *testing.T) {
	c := New()
	key := Key("Tell me about Go", Fingerprint(3, "last"), core.ModeInterviewOnly)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, "composed response")
	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "composed response", got)
}

func TestCache_KeyNormalizesWhitespaceAndCase(t *testing.T) {
	fp := Fingerprint(3, "last")
	a := Key("Tell me   about Go", fp, core.ModeInterviewOnly)
	b := Key("tell me about go", fp, core.ModeInterviewOnly)
	assert.Equal(t, a, b)

	c := Key("tell me about go", fp, core.ModeFullFeedback)
	assert.NotEqual(t, a, c, "mode participates in the key")

	d := Key("tell me about go", Fingerprint(4, "last"), core.ModeInterviewOnly)
	assert.NotEqual(t, a, d, "fingerprint participates in the key")
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(func(o *Options) { o.TTL = 20 * time.Millisecond })
	c.Put("k", "v")

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "expired entries are lazily evicted on lookup")
	assert.Equal(t, 0, c.Len())
}

func TestCache_LRUBound(t *testing.T) {
	c := New(func(o *Options) { o.MaxEntries = 3 })
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
	}

	// Touch k0 so k1 becomes the eviction candidate.
	_, _ = c.Get("k0")
	c.Put("k3", "v")

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("k1")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Get("k0")
	assert.True(t, ok)
}

func TestCache_PutRefreshesExisting(t *testing.T) {
	c := New(func(o *Options) { o.TTL = 40 * time.Millisecond })
	c.Put("k", "v1")
	time.Sleep(25 * time.Millisecond)
	c.Put("k", "v2")
	time.Sleep(25 * time.Millisecond)

	got, ok := c.Get("k")
	assert.True(t, ok, "rewrite resets the entry lifetime")
	assert.Equal(t, "v2", got)
}
