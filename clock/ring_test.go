package clock

import "testing"

func TestRing_RecordAndDrop(t *testing.T) {
	r := NewRing(2, 7)
	c := New()

	if !r.Record(c, TickGenerated, 1) {
		t.Fatal("expected first record to succeed")
	}
	if !r.Record(c, TickGenerated, 2) {
		t.Fatal("expected second record to succeed")
	}
	if r.Record(c, TickGenerated, 3) {
		t.Fatal("expected third record to be dropped at capacity 2")
	}
	if r.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", r.Dropped())
	}
	if !r.Full() {
		t.Fatal("expected ring to report full")
	}

	events := r.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 recorded events, got %d", len(events))
	}
	if events[0].Sequence >= events[1].Sequence {
		t.Fatalf("expected strictly increasing sequence within one ring: %d, %d", events[0].Sequence, events[1].Sequence)
	}
}

func TestRegistry_AggregateOrdersBySequence(t *testing.T) {
	reg := NewRegistry()
	c := New()

	r1 := NewRing(10, 1)
	r2 := NewRing(10, 2)
	reg.Register(r1)
	reg.Register(r2)

	r1.Record(c, TickGenerated, 0)
	r2.Record(c, TickReceived, 0)
	r1.Record(c, OrderSubmitted, 0)

	merged := reg.Aggregate()
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged events, got %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Sequence >= merged[i].Sequence {
			t.Fatalf("expected merged events sorted by sequence: %+v", merged)
		}
	}
}
