// ABOUTME: Thread-safe TTL cache for deduplicating inbound webhook messages.
// ABOUTME: WhatsApp redelivers webhooks on slow responses; this keeps replies single.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// DefaultTTL covers the WhatsApp webhook redelivery window.
const DefaultTTL = 10 * time.Minute

// DefaultMaxEntries bounds memory for the message-ID cache.
const DefaultMaxEntries = 10_000

// record tracks when an ID was first seen and where it sits in the
// eviction order.
type record struct {
	firstSeen time.Time
	elem      *list.Element
}

// Cache remembers message IDs for a TTL so redelivered webhooks can be
// dropped instead of producing a second assistant reply. It is safe for
// concurrent use. Insertion order is kept in a doubly-linked list so the
// size cap evicts the oldest ID in O(1).
type Cache struct {
	mu         sync.Mutex
	ids        map[string]*record
	order      *list.List // oldest at front
	ttl        time.Duration
	maxEntries int
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a message-ID cache with the given TTL and size cap.
// A background goroutine sweeps expired IDs once a minute until Close
// is called.
func New(ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{
		ids:        make(map[string]*record),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		done:       make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Seen reports whether id was already recorded within the TTL, and
// records it if not. The check and the record happen under one lock, so
// concurrent deliveries of the same ID yield exactly one false.
func (c *Cache) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.ids[id]; ok && time.Since(rec.firstSeen) < c.ttl {
		return true
	}
	c.record(id)
	return false
}

// Contains reports whether id is recorded and unexpired, without
// recording it.
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.ids[id]
	return ok && time.Since(rec.firstSeen) < c.ttl
}

// Len returns the number of IDs currently held, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

// record inserts or refreshes an ID. Must be called with mu held.
func (c *Cache) record(id string) {
	if rec, ok := c.ids[id]; ok {
		// Expired entry being reused: restart its clock and move it
		// to the back of the eviction order.
		rec.firstSeen = time.Now()
		c.order.MoveToBack(rec.elem)
		return
	}

	if len(c.ids) >= c.maxEntries {
		c.evictOldest()
	}

	c.ids[id] = &record{
		firstSeen: time.Now(),
		elem:      c.order.PushBack(id),
	}
}

// evictOldest drops the front of the eviction order. Must be called
// with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.ids, id)
}

// sweepLoop periodically removes expired IDs so the map does not hold
// dead entries until the size cap forces them out.
func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes every expired ID.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, rec := range c.ids {
		if now.Sub(rec.firstSeen) >= c.ttl {
			c.order.Remove(rec.elem)
			delete(c.ids, id)
		}
	}
}

// Close stops the sweep goroutine. Safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
