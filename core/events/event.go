package events

import (
	"sync"

	"repledger/core/types"
)

// Event represents a structured state change emitted by the ledger.
type Event interface {
	EventType() string
	Event() *types.Event
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
// Delivery is observational only; no state transition depends on it.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Collector retains the most recent events in a fixed-size ring so the query
// surface can expose them without unbounded growth.
type Collector struct {
	mu     sync.RWMutex
	limit  int
	buffer []*types.Event
}

// NewCollector constructs a collector retaining up to limit events.
func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = 256
	}
	return &Collector{limit: limit}
}

// Emit implements the Emitter interface.
func (c *Collector) Emit(evt Event) {
	if c == nil || evt == nil {
		return
	}
	canonical := evt.Event()
	if canonical == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffer = append(c.buffer, canonical)
	if len(c.buffer) > c.limit {
		c.buffer = c.buffer[len(c.buffer)-c.limit:]
	}
}

// Recent returns a copy of the retained events, oldest first.
func (c *Collector) Recent() []*types.Event {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.Event, len(c.buffer))
	copy(out, c.buffer)
	return out
}
