package main

import (
	"fmt"
	"time"

	"github.com/huangsc/hftcore"
	"github.com/huangsc/hftcore/clock"
	"go.uber.org/zap"
)

// runSelfTest runs a fixed battery of sanity checks against the clock,
// order book, matching engine, and timestamp ring, printing PASS/FAIL as
// it goes and a summary at the end.
func runSelfTest(logger *zap.Logger) bool {
	passed, failed := 0, 0
	check := func(name string, ok bool) {
		if ok {
			fmt.Printf("  [PASS] %s\n", name)
			passed++
		} else {
			fmt.Printf("  [FAIL] %s\n", name)
			failed++
		}
	}

	fmt.Println("--- Clock Tests ---")
	c := clock.New()
	check("Clock overhead < 10000ns", c.OverheadNS() < 10_000)
	t1 := c.Now()
	t2 := c.Now()
	check("Monotonic reads are non-decreasing", t2 >= t1)

	fmt.Println("--- Order Book Tests ---")
	var nextID uint64
	book := matcher.NewOrderBook(matcher.NewSymbol("TEST"), 1024, &nextID)
	check("Order book creation", book != nil)
	check("Order book initially empty", book.BestBid() == matcher.InvalidPrice && book.BestAsk() == matcher.InvalidPrice)

	fmt.Println("--- Matching Engine Tests ---")
	engine := matcher.NewMatchEngine(1024, c)
	check("Engine creation", engine != nil)
	sym := matcher.NewSymbol("BTC-USD")
	check("Add instrument", engine.AddInstrument(sym))
	check("Get order book", engine.GetBook(sym) != nil)

	fmt.Println("--- Order Submission Tests ---")
	engine2 := matcher.NewMatchEngine(1024, c)
	sym2 := matcher.NewSymbol("ETH-USD")
	engine2.AddInstrument(sym2)

	id1 := engine2.SubmitOrder(sym2, matcher.Buy, matcher.Limit, 100*matcher.Price(matcher.PriceMultiplier), 10, 1)
	check("Submit buy order", id1 != matcher.InvalidOrderID)
	id2 := engine2.SubmitOrder(sym2, matcher.Sell, matcher.Limit, 100*matcher.Price(matcher.PriceMultiplier), 5, 2)
	check("Submit sell order (should match)", id2 != matcher.InvalidOrderID)
	id3 := engine2.SubmitOrder(sym2, matcher.Buy, matcher.Limit, 99*matcher.Price(matcher.PriceMultiplier), 10, 3)
	check("Submit non-crossing order", id3 != matcher.InvalidOrderID)

	fmt.Println("--- Performance Sanity Check ---")
	perfEngine := matcher.NewMatchEngine(20_000, c)
	perfSym := matcher.NewSymbol("PERF-TEST")
	perfEngine.AddInstrument(perfSym)

	const numOrders = 10_000
	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side := matcher.Buy
		if i%2 != 0 {
			side = matcher.Sell
		}
		perfEngine.SubmitOrder(perfSym, side, matcher.Limit, matcher.Price(100_000+int64(i%100)*10), 10, uint64(i))
	}
	elapsed := time.Since(start)
	ordersPerSec := float64(numOrders) / elapsed.Seconds()
	fmt.Printf("  Submitted %d orders in %s\n", numOrders, elapsed)
	fmt.Printf("  Throughput: %.0f orders/sec\n", ordersPerSec)
	check("Performance > 10,000 orders/sec", ordersPerSec > 10_000)

	fmt.Println("--- Timestamp Ring Tests ---")
	ring := clock.NewRing(10_000, 0)
	for i := 0; i < 10_000; i++ {
		ring.Record(c, clock.TickGenerated, uint64(i))
	}
	check("Ring recording", len(ring.Events()) == 10_000)
	check("No drops", ring.Dropped() == 0)

	reg := clock.NewRegistry()
	reg.Register(ring)
	merged := reg.Aggregate()
	check("Event aggregation", len(merged) == 10_000)
	sorted := true
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Sequence >= merged[i].Sequence {
			sorted = false
			break
		}
	}
	check("Events sorted by sequence", sorted)

	fmt.Printf("\nSelf-test complete: %d passed, %d failed\n", passed, failed)
	if failed == 0 {
		logger.Info("self-test passed", zap.Int("passed", passed))
		fmt.Printf("Self-test PASSED. All %d tests successful. System ready for benchmarking.\n", passed)
		return true
	}
	logger.Error("self-test failed", zap.Int("failed", failed))
	fmt.Printf("Self-test FAILED. %d test(s) failed. Please check system configuration.\n", failed)
	return false
}
