// Package clock provides a monotonic timestamp source, per-goroutine event
// capture, and latency reducers. The core invariant is that recording
// never allocates, locks, or enters the kernel.
package clock

import (
	"sort"
	"time"
)

// Clock is a calibrated monotonic timestamp source. Go's runtime clock is
// already a steady, invariant-across-scaling monotonic counter on every
// supported platform, so Clock reads it directly (time.Now's monotonic
// component) rather than reaching for a hardware cycle counter. It still
// calibrates its own self-overhead: the median of many back-to-back
// read pairs after a warm-up, subtracted from measured elapsed time.
type Clock struct {
	overheadNS int64
}

// New returns a Clock calibrated against Go's runtime monotonic clock.
func New() *Clock {
	c := &Clock{}
	c.Calibrate()
	return c
}

// epoch anchors Now's readings. time.Since uses the monotonic component of
// both readings, so Now does not move when the wall clock is stepped.
var epoch = time.Now()

// Now returns the current reading in nanoseconds since the package epoch.
func (c *Clock) Now() int64 {
	return int64(time.Since(epoch))
}

// Calibrate measures the overhead of two back-to-back Now() reads: the
// median over at least 1000 samples, after a warm-up of at least 100
// reads.
func (c *Clock) Calibrate() {
	const warmup = 100
	const samples = 1000

	for i := 0; i < warmup; i++ {
		_ = c.Now()
	}

	deltas := make([]int64, samples)
	for i := 0; i < samples; i++ {
		t1 := c.Now()
		t2 := c.Now()
		deltas[i] = t2 - t1
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	c.overheadNS = deltas[len(deltas)/2]
}

// OverheadNS returns the last-calibrated per-read overhead in nanoseconds.
func (c *Clock) OverheadNS() int64 {
	return c.overheadNS
}

// ElapsedNS returns the elapsed time since start, with measurement overhead
// subtracted and floored at zero.
func (c *Clock) ElapsedNS(start int64) int64 {
	elapsed := c.Now() - start - c.overheadNS
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// TicksToNS is the identity conversion: Clock's counter unit is already
// nanoseconds. Kept as a named method so callers that model a separate
// tick domain have a stable conversion point if a future build swaps in a
// true cycle counter.
func (c *Clock) TicksToNS(ticks int64) int64 {
	return ticks
}

// defaultClock is the package-wide singleton, calibrated once at package
// init.
var defaultClock = New()

// Now returns the default Clock's current reading.
func Now() int64 { return defaultClock.Now() }

// Default returns the package's default calibrated Clock.
func Default() *Clock { return defaultClock }
