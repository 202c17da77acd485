package matcher

import (
	"testing"

	"github.com/huangsc/hftcore/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEngine_AddInstrumentIsIdempotent(t *testing.T) {
	e := NewMatchEngine(64, clock.Default())
	sym := NewSymbol("BTCUSD")

	assert.True(t, e.AddInstrument(sym))
	assert.False(t, e.AddInstrument(sym))
}

func TestMatchEngine_SubmitRoutesToBook(t *testing.T) {
	e := NewMatchEngine(64, clock.Default())
	sym := NewSymbol("BTCUSD")
	e.AddInstrument(sym)

	var trades int
	e.SetExecutionCallback(func(r ExecutionReport) {
		if r.Kind == ReportTrade {
			trades++
		}
	})

	e.SubmitOrder(sym, Sell, Limit, 100, 10, 1)
	e.SubmitOrder(sym, Buy, Limit, 100, 10, 2)

	assert.Equal(t, 2, trades)
	stats := e.Stats()
	assert.Equal(t, uint64(2), stats.OrdersReceived)
	assert.Equal(t, Quantity(10), stats.TotalVolume)
}

func TestMatchEngine_UnknownSymbolRejected(t *testing.T) {
	e := NewMatchEngine(64, clock.Default())

	var reports []ExecutionReport
	e.SetExecutionCallback(func(r ExecutionReport) {
		reports = append(reports, r)
	})

	id := e.SubmitOrder(NewSymbol("NOPE"), Buy, Limit, 100, 10, 1)
	assert.Equal(t, InvalidOrderID, id)

	require.Len(t, reports, 1)
	assert.Equal(t, ReportRejected, reports[0].Kind)
	stats := e.Stats()
	assert.Equal(t, uint64(1), stats.OrdersRejected)
}

func TestMatchEngine_CancelAndModifyRouteToBook(t *testing.T) {
	e := NewMatchEngine(64, clock.Default())
	sym := NewSymbol("ETHUSD")
	e.AddInstrument(sym)

	id := e.SubmitOrder(sym, Buy, Limit, 100, 10, 1)
	require.NotEqual(t, InvalidOrderID, id)

	assert.True(t, e.ModifyOrder(sym, id, 100, 5))
	assert.True(t, e.CancelOrder(sym, id))
	assert.False(t, e.CancelOrder(sym, id))
}

func TestAsyncMatchEngine_SubmitAndDrain(t *testing.T) {
	inner := NewMatchEngine(1024, clock.Default())
	sym := NewSymbol("BTCUSD")
	inner.AddInstrument(sym)

	async := NewAsyncMatchEngine(inner)
	async.Start()
	defer async.Stop()

	result := make(chan OrderID, 1)
	async.Enqueue(OrderRequest{Kind: RequestSubmit, Symbol: sym, Side: Buy, Type: Limit, Price: 100, Quantity: 10, ClientID: 1, Result: result})

	id := <-result
	assert.NotEqual(t, InvalidOrderID, id)
}
