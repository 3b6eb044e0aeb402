// Package stream distributes market-state updates to interested consumers.
package stream

import (
	"sync"
	"sync/atomic"
	"time"
)

// UpdateKind classifies what produced an update.
type UpdateKind string

const (
	// UpdateRefresh follows a completed fetch cycle (live or not).
	UpdateRefresh UpdateKind = "refresh"
	// UpdateSimulation follows a simulation tick.
	UpdateSimulation UpdateKind = "simulation"
	// UpdateMutation follows a user edit (holding/position/watchlist).
	UpdateMutation UpdateKind = "mutation"
)

// Update is a lightweight notification that market state changed. Consumers
// read the current state from the engine; updates carry no prices themselves.
type Update struct {
	Kind UpdateKind
	Live bool
	At   time.Time
}

// Hub fans out updates to subscribers. Sends are non-blocking: a subscriber
// that falls behind misses updates rather than stalling the engine.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan Update]struct{}
	dropped atomic.Uint64
	closed  bool
}

// NewHub creates an update hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Update]struct{})}
}

// Subscribe registers a consumer and returns its channel.
func (h *Hub) Subscribe() <-chan Update {
	ch := make(chan Update, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (h *Hub) Unsubscribe(ch <-chan Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub == ch {
			delete(h.subs, sub)
			close(sub)
			return
		}
	}
}

// Publish sends an update to all subscribers without blocking.
func (h *Hub) Publish(u Update) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		select {
		case sub <- u:
		default:
			h.dropped.Add(1)
		}
	}
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub)
	}
}

// Dropped returns the number of updates discarded due to slow consumers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
