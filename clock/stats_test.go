package clock

import "testing"

func TestStats_PercentileNearestRank(t *testing.T) {
	s := NewStats(10)
	for _, v := range []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100} {
		s.Add(v)
	}
	// n=10, p50 -> floor(0.5*9) = index 4 -> value 50
	if got := s.Percentile(50); got != 50 {
		t.Fatalf("expected p50=50, got %v", got)
	}
	// p99 -> floor(0.99*9) = floor(8.91) = index 8 -> value 90
	if got := s.Percentile(99); got != 90 {
		t.Fatalf("expected p99=90, got %v", got)
	}
	// p0 -> index 0 -> 10; p100 -> index 9 -> 100
	if got := s.Percentile(0); got != 10 {
		t.Fatalf("expected p0=10, got %v", got)
	}
	if got := s.Percentile(100); got != 100 {
		t.Fatalf("expected p100=100, got %v", got)
	}
}

func TestStats_MinMaxMean(t *testing.T) {
	s := NewStats(4)
	for _, v := range []int64{5, 1, 9, 3} {
		s.Add(v)
	}
	if s.Min() != 1 {
		t.Fatalf("expected min=1, got %v", s.Min())
	}
	if s.Max() != 9 {
		t.Fatalf("expected max=9, got %v", s.Max())
	}
	if s.Mean() != 4.5 {
		t.Fatalf("expected mean=4.5, got %v", s.Mean())
	}
}

func TestStats_EmptyIsZeroed(t *testing.T) {
	s := NewStats(0)
	if s.Min() != 0 || s.Max() != 0 || s.Mean() != 0 || s.Percentile(50) != 0 {
		t.Fatal("expected all-zero summary for empty stats")
	}
}

func TestHistogram_RecordAndClamp(t *testing.T) {
	h := NewHistogram(100, 5) // buckets: [0,100) [100,200) ... overflow clamps to last
	h.Record(50)
	h.Record(150)
	h.Record(10_000) // overflow, clamps into bucket 4
	if h.TotalCount() != 3 {
		t.Fatalf("expected count=3, got %d", h.TotalCount())
	}
	if h.buckets[0] != 1 || h.buckets[1] != 1 || h.buckets[4] != 1 {
		t.Fatalf("unexpected bucket distribution: %v", h.buckets)
	}
}
