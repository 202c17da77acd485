package clock

import "sync/atomic"

// EventType enumerates the kinds of timestamp events the pipeline harness
// records.
type EventType uint8

const (
	TickGenerated EventType = iota
	TickReceived
	StrategyStart
	StrategyEnd
	OrderSubmitted
	OrderReceived
	OrderMatched
	QueuePush
	QueuePop
	Custom1
	Custom2
	Custom3
	UserDefined EventType = 255
)

// globalSequence is the process-wide monotonic counter merged events are
// ordered by. It is deliberately global with no teardown, touched only
// with relaxed atomic increments — the one piece of shared mutable state
// in this package.
var globalSequence atomic.Uint64

// Event is one 32-byte timestamp record: {ticks, sequence, payload, type,
// thread_id}.
type Event struct {
	Ticks     int64
	Sequence  uint64
	Payload   uint64
	Type      EventType
	ThreadID  uint8
	_         [6]byte // pad to 32 bytes
}

// Ring is a fixed-capacity, heap-allocated event buffer meant to be owned
// exclusively by one goroutine: Go has no thread-local storage, so
// "never shared, never synchronized" is a convention here, one Ring per
// pipeline stage goroutine, rather than something the runtime enforces.
// Recording never allocates: the backing slice is sized at construction.
type Ring struct {
	events   []Event
	count    int
	dropped  uint64
	threadID uint8
}

// NewRing allocates a Ring with room for capacity events, owned by the
// given logical thread id (used only to tag recorded events).
func NewRing(capacity int, threadID uint8) *Ring {
	return &Ring{
		events:   make([]Event, capacity),
		threadID: threadID,
	}
}

// Record appends an event timestamped with clock.Now(). It returns false,
// incrementing the drop counter, if the ring is full.
func (r *Ring) Record(c *Clock, t EventType, payload uint64) bool {
	return r.RecordAt(c.Now(), t, payload)
}

// RecordAt appends an event with an explicit timestamp (e.g. one captured
// earlier in the call and passed through), for callers that already hold a
// reading and don't want a second clock read.
func (r *Ring) RecordAt(ticks int64, t EventType, payload uint64) bool {
	if r.count >= len(r.events) {
		r.dropped++
		return false
	}
	r.events[r.count] = Event{
		Ticks:    ticks,
		Sequence: globalSequence.Add(1) - 1,
		Payload:  payload,
		Type:     t,
		ThreadID: r.threadID,
	}
	r.count++
	return true
}

// Events returns the events recorded so far (not a copy; valid until the
// next Record/Clear call).
func (r *Ring) Events() []Event {
	return r.events[:r.count]
}

// Dropped returns the number of events dropped because the ring was full.
func (r *Ring) Dropped() uint64 {
	return r.dropped
}

// Full reports whether the ring has no remaining capacity.
func (r *Ring) Full() bool {
	return r.count >= len(r.events)
}

// Clear resets the ring for reuse without reallocating.
func (r *Ring) Clear() {
	r.count = 0
}

// ScopedEvent records a start event on creation and its paired end event
// on End. Go has no destructors, so the caller must call End explicitly,
// typically via defer.
type ScopedEvent struct {
	ring    *Ring
	clock   *Clock
	endType EventType
	payload uint64
}

// BeginScoped records startType now and returns a handle whose End records
// endType.
func BeginScoped(ring *Ring, c *Clock, startType, endType EventType, payload uint64) *ScopedEvent {
	ring.Record(c, startType, payload)
	return &ScopedEvent{ring: ring, clock: c, endType: endType, payload: payload}
}

// End records the paired end event.
func (s *ScopedEvent) End() {
	s.ring.Record(s.clock, s.endType, s.payload)
}
