package clock

import (
	"fmt"
	"io"
	"math"
	"sort"
)

// Stats collects latency samples in nanoseconds and reduces them to a
// standard min/mean/percentile/max summary.
type Stats struct {
	samples []int64
}

// NewStats returns an empty Stats with room for reserve samples
// pre-allocated, avoiding reallocation during a measured run.
func NewStats(reserve int) *Stats {
	return &Stats{samples: make([]int64, 0, reserve)}
}

// Add records one latency sample in nanoseconds.
func (s *Stats) Add(ns int64) {
	s.samples = append(s.samples, ns)
}

// Count returns the number of recorded samples.
func (s *Stats) Count() int { return len(s.samples) }

// Clear discards all recorded samples.
func (s *Stats) Clear() { s.samples = s.samples[:0] }

func (s *Stats) sorted() []int64 {
	out := make([]int64, len(s.samples))
	copy(out, s.samples)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Min returns the smallest sample, or 0 if empty.
func (s *Stats) Min() int64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0]
	for _, v := range s.samples[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest sample, or 0 if empty.
func (s *Stats) Max() int64 {
	if len(s.samples) == 0 {
		return 0
	}
	m := s.samples[0]
	for _, v := range s.samples[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Mean returns the arithmetic mean, or 0 if empty.
func (s *Stats) Mean() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	var sum int64
	for _, v := range s.samples {
		sum += v
	}
	return float64(sum) / float64(len(s.samples))
}

// StdDev returns the sample standard deviation, or 0 if fewer than 2
// samples.
func (s *Stats) StdDev() float64 {
	n := len(s.samples)
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	var sumSq float64
	for _, v := range s.samples {
		d := float64(v) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// Percentile returns the nearest-rank percentile of the sample set: for
// sorted samples of size n and percentile p (0-100), the element at index
// floor(p/100 * (n-1)). Returns 0 if empty.
func (s *Stats) Percentile(p float64) float64 {
	if len(s.samples) == 0 {
		return 0
	}
	sorted := s.sorted()
	idx := int(math.Floor((p / 100.0) * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx])
}

// Median returns the p50 nearest-rank percentile.
func (s *Stats) Median() float64 { return s.Percentile(50) }

// Summary is the standard end-of-run latency report.
type Summary struct {
	Count  int
	Min    float64
	Mean   float64
	Median float64
	P50    float64
	P90    float64
	P99    float64
	P999   float64
	Max    float64
	StdDev float64
}

// Summarize computes the full Summary; each percentile is taken from its
// own sorted copy of the samples.
func (s *Stats) Summarize() Summary {
	return Summary{
		Count:  s.Count(),
		Min:    float64(s.Min()),
		Mean:   s.Mean(),
		Median: s.Median(),
		P50:    s.Percentile(50),
		P90:    s.Percentile(90),
		P99:    s.Percentile(99),
		P999:   s.Percentile(99.9),
		Max:    float64(s.Max()),
		StdDev: s.StdDev(),
	}
}

// Histogram is a fixed-bucket latency distribution, a cheap shape view to
// sit alongside point percentiles in a final report — percentiles alone
// hide whether a tail is one long spike or a wide plateau.
type Histogram struct {
	bucketWidthNS int64
	buckets       []uint64
	count         uint64
}

// NewHistogram returns a Histogram with bucketCount buckets of
// bucketWidthNS nanoseconds each.
func NewHistogram(bucketWidthNS int64, bucketCount int) *Histogram {
	return &Histogram{
		bucketWidthNS: bucketWidthNS,
		buckets:       make([]uint64, bucketCount),
	}
}

// Record adds ns to its bucket, clamping overflow into the last bucket.
func (h *Histogram) Record(ns int64) {
	bucket := ns / h.bucketWidthNS
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= int64(len(h.buckets)) {
		bucket = int64(len(h.buckets)) - 1
	}
	h.buckets[bucket]++
	h.count++
}

// Reset zeroes all buckets.
func (h *Histogram) Reset() {
	for i := range h.buckets {
		h.buckets[i] = 0
	}
	h.count = 0
}

// TotalCount returns the number of recorded samples.
func (h *Histogram) TotalCount() uint64 { return h.count }

// Print renders a bar-chart summary to w.
func (h *Histogram) Print(w io.Writer) {
	var maxCount uint64
	for _, c := range h.buckets {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}
	const barWidth = 50
	fmt.Fprintf(w, "Latency Histogram (bucket=%dns, total=%d):\n", h.bucketWidthNS, h.count)
	for i, c := range h.buckets {
		if c == 0 {
			continue
		}
		barLen := int(c * barWidth / maxCount)
		fmt.Fprintf(w, "%6dns: %s %d\n", int64(i)*h.bucketWidthNS, barString(barLen), c)
	}
}

func barString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '#'
	}
	return string(b)
}
