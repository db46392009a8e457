package events

// Event represents a structured state change emitted by the minting engine.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (e.g. indexers, logs).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is the default wiring for components that expose events optionally.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Capture records every emitted event in order. Intended for tests and for
// hosts that drain events after each dispatch.
type Capture struct {
	Events []Event
}

// Emit implements the Emitter interface.
func (c *Capture) Emit(evt Event) {
	if c == nil || evt == nil {
		return
	}
	c.Events = append(c.Events, evt)
}

// Reset discards previously captured events.
func (c *Capture) Reset() {
	if c == nil {
		return
	}
	c.Events = nil
}
