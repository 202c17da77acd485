package matcher

import "testing"

func TestBookSide_GetOrCreateKeepsSortedOrder(t *testing.T) {
	s := newBookSide(bidBetter)
	s.getOrCreate(100)
	s.getOrCreate(102)
	s.getOrCreate(101)

	if len(s.prices) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(s.prices))
	}
	want := []Price{102, 101, 100}
	for i, p := range want {
		if s.prices[i] != p {
			t.Fatalf("expected prices[%d]=%v, got %v", i, p, s.prices[i])
		}
	}
}

func TestBookSide_AskOrderingIsAscending(t *testing.T) {
	s := newBookSide(askBetter)
	s.getOrCreate(101)
	s.getOrCreate(99)
	s.getOrCreate(100)

	want := []Price{99, 100, 101}
	for i, p := range want {
		if s.prices[i] != p {
			t.Fatalf("expected prices[%d]=%v, got %v", i, p, s.prices[i])
		}
	}
}

func TestBookSide_RemoveIfEmpty(t *testing.T) {
	s := newBookSide(bidBetter)
	s.getOrCreate(100)
	if s.empty() {
		t.Fatal("side should not be empty after getOrCreate")
	}

	// A freshly created level has no resting orders, so it is itself
	// Empty() and removeIfEmpty drops it from the index.
	s.removeIfEmpty(100)
	if !s.empty() {
		t.Fatal("expected an empty level to be dropped by removeIfEmpty")
	}
	if s.level(100) != nil {
		t.Fatal("expected level(100) to be gone after removal")
	}
}

func TestBookSide_BestReturnsTopPriority(t *testing.T) {
	s := newBookSide(bidBetter)
	s.getOrCreate(100)
	s.getOrCreate(105)
	s.getOrCreate(95)

	if got := s.best().Price(); got != 105 {
		t.Fatalf("expected best=105, got %v", got)
	}
}
