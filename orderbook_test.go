package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(capacity int) (*OrderBook, *uint64) {
	var next uint64
	return NewOrderBook(NewSymbol("TEST"), capacity, &next), &next
}

func TestOrderBook_SingleCross(t *testing.T) {
	book, _ := newTestBook(64)
	var reports []ExecutionReport
	emit := func(r ExecutionReport) { reports = append(reports, r) }

	buyID := book.Submit(Buy, Limit, 100*Price(PriceMultiplier), 10, 1, 1, emit)
	require.NotEqual(t, InvalidOrderID, buyID)

	sellID := book.Submit(Sell, Limit, 99*Price(PriceMultiplier), 10, 2, 2, emit)
	require.NotEqual(t, InvalidOrderID, sellID)

	assert.Equal(t, uint64(1), book.TradesMatched())
	assert.Equal(t, Quantity(10), book.VolumeMatched())
	assert.True(t, book.bids.empty())
	assert.True(t, book.asks.empty())

	var trades int
	for _, r := range reports {
		if r.Kind == ReportTrade {
			trades++
			assert.Equal(t, 100*Price(PriceMultiplier), r.Price)
		}
	}
	assert.Equal(t, 2, trades)
}

func TestOrderBook_PriceTimePriority(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	id1 := book.Submit(Buy, Limit, 100, 10, 1, 1, emit)
	id2 := book.Submit(Buy, Limit, 100, 20, 2, 2, emit)
	require.NotEqual(t, InvalidOrderID, id1)
	require.NotEqual(t, InvalidOrderID, id2)

	book.Submit(Sell, Limit, 99, 15, 3, 3, emit)

	bids, asks := book.GetDepth(10)
	require.Len(t, bids, 1)
	assert.Equal(t, Price(100), bids[0].Price)
	assert.Equal(t, Quantity(15), bids[0].Quantity)
	assert.Equal(t, 1, bids[0].OrderCount)
	assert.Empty(t, asks)

	h1 := book.index[id1]
	assert.False(t, h1 != nilHandle, "id1 should be fully filled and removed from the index")
}

func TestOrderBook_PartialFillPreservesPriority(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	id1 := book.Submit(Buy, Limit, 100, 100, 1, 1, emit)
	book.Submit(Sell, Limit, 99, 30, 2, 2, emit)

	h1, ok := book.index[id1]
	require.True(t, ok)
	o1 := book.arena.get(h1)
	assert.Equal(t, Quantity(70), o1.RemainingQuantity())

	id3 := book.Submit(Buy, Limit, 100, 50, 3, 3, emit)
	require.NotEqual(t, InvalidOrderID, id3)

	book.Submit(Sell, Limit, 99, 80, 4, 4, emit)

	_, stillResting1 := book.index[id1]
	assert.False(t, stillResting1, "id1 should be fully filled (70) and removed")

	h3, ok := book.index[id3]
	require.True(t, ok)
	o3 := book.arena.get(h3)
	assert.Equal(t, Quantity(40), o3.RemainingQuantity())
}

func TestOrderBook_PostOnlyRejection(t *testing.T) {
	book, _ := newTestBook(64)
	var reports []ExecutionReport
	emit := func(r ExecutionReport) { reports = append(reports, r) }

	book.Submit(Buy, Limit, 100, 10, 1, 1, emit)
	before := book.bids.best().TotalQuantity()

	id := book.Submit(Sell, PostOnly, 99, 10, 2, 2, emit)
	assert.Equal(t, InvalidOrderID, id)
	assert.Equal(t, before, book.bids.best().TotalQuantity())
	assert.True(t, book.asks.empty())

	assert.Equal(t, ReportRejected, reports[len(reports)-1].Kind)
}

func TestOrderBook_FOKRejectsOnInsufficientLiquidity(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	book.Submit(Sell, Limit, 100, 5, 1, 1, emit)
	id := book.Submit(Buy, FOK, 100, 10, 2, 2, emit)
	assert.Equal(t, InvalidOrderID, id)
	assert.Equal(t, Quantity(5), book.asks.best().TotalQuantity())
}

func TestOrderBook_MarketOrderCancelsUnfilledRemainder(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	book.Submit(Sell, Limit, 100, 5, 1, 1, emit)
	id := book.Submit(Buy, Market, InvalidPrice, 10, 2, 2, emit)
	require.NotEqual(t, InvalidOrderID, id)

	assert.True(t, book.bids.empty())
	assert.True(t, book.asks.empty())
	assert.Equal(t, Quantity(5), book.VolumeMatched())
}

func TestOrderBook_CancelIsIdempotent(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	id := book.Submit(Buy, Limit, 100, 10, 1, 1, emit)
	require.True(t, book.Cancel(id, 2, emit))
	assert.False(t, book.Cancel(id, 3, emit))
	assert.False(t, book.Cancel(id+999, 4, emit))
}

func TestOrderBook_ModifyInPlacePreservesPriority(t *testing.T) {
	book, _ := newTestBook(64)
	emit := func(ExecutionReport) {}

	id1 := book.Submit(Buy, Limit, 100, 100, 1, 1, emit)
	id2 := book.Submit(Buy, Limit, 100, 50, 2, 2, emit)

	require.True(t, book.Modify(id1, 100, 60, 3, emit))

	lvl := book.bids.level(100)
	assert.Equal(t, id1, book.arena.get(lvl.front()).ID, "id1 must still be at the front after an in-place reduction")

	book.Submit(Sell, Limit, 99, 70, 3, 4, emit)
	h2, ok := book.index[id2]
	require.True(t, ok)
	assert.Equal(t, Quantity(40), book.arena.get(h2).RemainingQuantity())
}

func TestOrderBook_ModifyRejectsBelowFilled(t *testing.T) {
	book, _ := newTestBook(64)
	var reports []ExecutionReport
	emit := func(r ExecutionReport) { reports = append(reports, r) }

	id1 := book.Submit(Buy, Limit, 100, 100, 1, 1, emit)
	book.Submit(Sell, Limit, 99, 40, 2, 2, emit)

	reports = nil
	assert.False(t, book.Modify(id1, 100, 30, 3, emit))

	require.Len(t, reports, 1)
	assert.Equal(t, ReportRejected, reports[0].Kind)
	assert.Equal(t, id1, reports[0].OrderID)
}

func TestOrderBook_PoolExhaustionRejects(t *testing.T) {
	book, _ := newTestBook(1)
	emit := func(ExecutionReport) {}

	id1 := book.Submit(Buy, Limit, 100, 10, 1, 1, emit)
	require.NotEqual(t, InvalidOrderID, id1)

	var reports []ExecutionReport
	emit2 := func(r ExecutionReport) { reports = append(reports, r) }
	id2 := book.Submit(Buy, Limit, 99, 10, 2, 2, emit2)
	assert.Equal(t, InvalidOrderID, id2)
	require.Len(t, reports, 1)
	assert.Equal(t, ReportRejected, reports[0].Kind)
}

func BenchmarkOrderBook_Submit(b *testing.B) {
	book, _ := newTestBook(b.N + 1000)
	emit := func(ExecutionReport) {}

	for i := 0; i < 1000; i++ {
		book.Submit(Sell, Limit, Price(100+i%10), 1, 1, int64(i), emit)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Submit(Buy, Limit, 105, 1, 2, int64(i), emit)
	}
}

func BenchmarkOrderBook_RestingInsert(b *testing.B) {
	emit := func(ExecutionReport) {}
	book, _ := newTestBook(b.N + 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Submit(Buy, Limit, Price(100+i%10), 1, 1, int64(i), emit)
	}
}

func TestOrderBook_DepthSnapshot(t *testing.T) {
	emit := func(ExecutionReport) {}
	book, _ := newTestBook(64)

	for i, p := range []Price{101, 99, 100} {
		book.Submit(Buy, Limit, p, Quantity(10*(i+1)), uint64(i), int64(i), emit)
	}

	bids, _ := book.GetDepth(10)
	require.Len(t, bids, 3)
	assert.Equal(t, Price(101), bids[0].Price)
	assert.Equal(t, Price(100), bids[1].Price)
	assert.Equal(t, Price(99), bids[2].Price)
}

func TestOrderBook_EmptyBookHasNoQuote(t *testing.T) {
	book, _ := newTestBook(8)
	_, ok := book.GetQuote(1)
	assert.False(t, ok)
}

func TestOrderBook_RejectsNonPositiveQuantity(t *testing.T) {
	book, _ := newTestBook(8)
	var reports []ExecutionReport
	emit := func(r ExecutionReport) { reports = append(reports, r) }

	id := book.Submit(Buy, Limit, 100, 0, 1, 1, emit)
	assert.Equal(t, InvalidOrderID, id)

	require.Len(t, reports, 1)
	assert.Equal(t, ReportRejected, reports[0].Kind)
}

func symbolForBench(i int) Symbol {
	return NewSymbol(fmt.Sprintf("SYM%d", i%8))
}
