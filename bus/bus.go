// Package bus implements the process-wide publish/subscribe mechanism
// connecting the orchestrator, agents and external observers. One Bus
// instance serves all sessions; it holds no session-scoped state beyond a
// bounded diagnostic ring of recent events.
package bus

import (
	"fmt"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
)

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Handler consumes one published event. A returned error is logged and does
// not affect delivery to subsequent handlers.
type Handler func(ev core.Event) error

// Subscription identifies a registered handler for later removal.
type Subscription struct {
	id    uint64
	topic string
}

// Topic returns the topic the subscription was registered on.
func (s Subscription) Topic() string { return s.topic }

type subscriber struct {
	id      uint64
	topic   string
	handler Handler
}

// Options configures a Bus.
type Options struct {
	// RingSize bounds the diagnostic buffer of recent events.
	RingSize int
	// Logger receives handler failure reports.
	Logger logging.Logger
}

// Bus delivers events synchronously, in subscription-registration order, to
// every subscriber registered on the event's type plus every wildcard
// subscriber. A handler error or panic is isolated: it is logged with event
// metadata and delivery continues with the next handler. Safe for concurrent
// use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber

	ring     []core.Event
	ringHead int
	ringLen  int

	logger logging.Logger
}

// New constructs a Bus with optional overrides.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		RingSize: 100,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RingSize <= 0 {
		opts.RingSize = 1
	}
	return &Bus{
		ring:   make([]core.Event, opts.RingSize),
		logger: opts.Logger,
	}
}

// Subscribe registers a handler for the given topic (an event type string or
// Wildcard) and returns a token for Unsubscribe.
func (b *Bus) Subscribe(topic string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, topic: topic, handler: h})
	return Subscription{id: b.nextID, topic: topic}
}

// Unsubscribe removes a previously registered handler. Removing a
// subscription that is not present is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev synchronously to all matching subscribers in
// registration order and records it in the diagnostic ring.
func (b *Bus) Publish(ev core.Event) {
	b.mu.Lock()
	b.ring[b.ringHead] = ev
	b.ringHead = (b.ringHead + 1) % len(b.ring)
	if b.ringLen < len(b.ring) {
		b.ringLen++
	}
	// Snapshot matching handlers so delivery runs without holding the lock;
	// handlers may themselves publish or (un)subscribe.
	matched := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == Wildcard || s.topic == string(ev.Type) {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	for _, s := range matched {
		b.dispatch(s, ev)
	}
}

// dispatch invokes one handler, converting panics and errors into log entries
// so a failing subscriber never blocks the rest.
func (b *Bus) dispatch(s subscriber, ev core.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked: %v event_id=%s event_type=%s source=%s",
				r, ev.ID, ev.Type, ev.Source)
		}
	}()
	if err := s.handler(ev); err != nil {
		b.logger.Error("event handler failed: %v event_id=%s event_type=%s source=%s",
			fmt.Errorf("topic %s: %w", s.topic, err), ev.ID, ev.Type, ev.Source)
	}
}

// Recent returns up to n of the most recently published events, oldest first.
// n <= 0 returns the full retained window.
func (b *Bus) Recent(n int) []core.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > b.ringLen {
		n = b.ringLen
	}
	out := make([]core.Event, 0, n)
	start := b.ringHead - n
	for i := 0; i < n; i++ {
		idx := (start + i + len(b.ring)) % len(b.ring)
		out = append(out, b.ring[idx])
	}
	return out
}

// SubscriberCount returns the number of registered subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
