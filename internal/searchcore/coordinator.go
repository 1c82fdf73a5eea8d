package searchcore

import (
	"sync"

	"github.com/standardbeagle/fae/internal/debug"
)

// Coordinator is the search actor: it owns the current correlation-id and
// cancellation handle, supersedes any in-flight search when a newer query
// arrives, and drives the mode's strategy to completion, forwarding every
// produced record onto the Bus. State transitions run synchronously in
// the calling goroutine under a mutex; there is no dedicated owner
// goroutine or inbox channel. Strategy execution is offloaded to its own
// goroutine that communicates back only through the Bus.
type Coordinator struct {
	mu        sync.Mutex
	currentID int
	handle    *CancelHandle

	bus    *Bus
	sink   string
	modes  map[Mode]Strategy
	nextID int
}

// NewCoordinator wires a Coordinator to publish onto bus at endpoint
// sink, dispatching by Mode to modes.
func NewCoordinator(bus *Bus, sink string, modes map[Mode]Strategy) *Coordinator {
	return &Coordinator{bus: bus, sink: sink, modes: modes}
}

// Submit bypasses the debouncer with an explicit query.submit, matching
// spec.md §6's input event of the same name. It returns the correlation-
// id assigned to this query.
func (c *Coordinator) Submit(raw string) int {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()
	c.HandleQueryUpdate(raw, id)
	return id
}

// HandleQueryUpdate implements the query.update transition from
// spec.md §4.6: supersede any in-flight search, clear results, dispatch
// the new one.
func (c *Coordinator) HandleQueryUpdate(raw string, id int) {
	c.mu.Lock()
	if c.handle != nil {
		c.handle.Cancel()
	}
	c.currentID = id
	handle := NewCancelHandle()
	c.handle = handle
	if id > c.nextID {
		c.nextID = id
	}
	c.mu.Unlock()

	c.publish(id, Envelope{Method: MethodResultsClear, CorrelationID: id})

	query := ParseQuery(raw)
	if query.Cleaned == "" {
		c.publish(id, Envelope{Method: MethodSearchComplete, CorrelationID: id})
		return
	}

	strategy, ok := c.modes[query.Mode]
	if !ok {
		c.finish(id, Internal)
		return
	}

	go c.run(strategy, query, id, handle)
}

func (c *Coordinator) run(strategy Strategy, query Query, id int, handle *CancelHandle) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogSearch("coordinator: strategy panic for id %d: %v", id, r)
			c.finish(id, Internal)
		}
	}()

	kind, err := strategy.Prepare(query.Cleaned)
	if err != nil {
		c.finish(id, kind)
		return
	}

	for match := range strategy.Run(query.Cleaned, handle) {
		if handle.Cancelled() {
			break
		}
		c.publish(id, Envelope{Method: MethodResultsMatch, Payload: match, CorrelationID: id})
	}

	c.finishOK(id)
}

// finish emits a single search.error(kind) followed by search.complete,
// both tagged id. finishOK emits just search.complete. Every id that is
// still current when it finishes gets exactly one of these, matching
// spec.md §7's invariant. An id that has been superseded before it
// reaches finish/finishOK is dropped at publish time instead: its
// match/error/complete envelopes would only ever trail the newer id's
// results.clear, so emitting them would violate the supersession
// invariant rather than merely be redundant with it.
func (c *Coordinator) finish(id int, kind ErrorKind) {
	c.publish(id, Envelope{Method: MethodSearchError, Payload: kind, CorrelationID: id})
	c.finishOK(id)
}

func (c *Coordinator) finishOK(id int) {
	c.publish(id, Envelope{Method: MethodSearchComplete, CorrelationID: id})
}

// publish delivers env to the sink. Every envelope except results.clear
// is dropped once id is no longer current, so a superseded search can
// never emit a match or completion after the newer search's clear.
func (c *Coordinator) publish(id int, env Envelope) {
	if env.Method != MethodResultsClear && !c.IsCurrent(id) {
		return
	}
	_ = c.bus.Send(c.sink, env)
}

// IsCurrent reports whether id is still the latest correlation-id this
// Coordinator has started, for use by a sink implementing the
// supersession filter spec.md §4.6 describes.
func (c *Coordinator) IsCurrent(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID == id
}
