package pipeline

import (
	"runtime"

	"github.com/huangsc/hftcore"
	"github.com/huangsc/hftcore/clock"
	"github.com/huangsc/hftcore/queue"
)

// Exchange is the pipeline's final stage: it dequeues ExchangeOrders,
// records t_order_recv immediately after dequeue, drives the matching
// engine, and feeds the tick-to-trade histogram and the strategy/transit
// time reducers.
type Exchange struct {
	engine *matcher.MatchEngine
	clock  *clock.Clock

	tickToTrade   *clock.Stats
	tickToTradeH  *clock.Histogram
	strategyTime  *clock.Stats
	transitTime   *clock.Stats

	ordersReceived uint64
	ordersAccepted uint64

	warmupUntilNS int64
}

// NewExchange returns an Exchange driving engine, timestamping with c.
func NewExchange(engine *matcher.MatchEngine, c *clock.Clock) *Exchange {
	if c == nil {
		c = clock.Default()
	}
	return &Exchange{
		engine:       engine,
		clock:        c,
		tickToTrade:  clock.NewStats(1 << 20),
		tickToTradeH: clock.NewHistogram(1_000, 200), // 1us buckets, up to 200us
		strategyTime: clock.NewStats(1 << 20),
		transitTime:  clock.NewStats(1 << 20),
	}
}

// SetWarmupUntil excludes samples generated before ns (absolute clock
// reading) from the latency reducers and histogram: orders generated
// during warmup still flow through the engine, only their latency is
// excluded from the report.
func (e *Exchange) SetWarmupUntil(ns int64) {
	e.warmupUntilNS = ns
}

// Consume drains q until stop returns true, applying each ExchangeOrder to
// the engine and recording latencies.
func (e *Exchange) Consume(q *queue.SPSC[ExchangeOrder], stop func() bool) {
	for !stop() {
		eo, ok := q.TryPop()
		if !ok {
			runtime.Gosched()
			continue
		}
		e.Apply(eo)
	}
}

// Apply drives the matching engine with one ExchangeOrder's request and
// records three latency breakdowns: strategy time (t_strategy_done -
// t_gen), transit time (t_order_recv - t_strategy_done), and
// tick-to-trade (t_order_recv - t_gen).
func (e *Exchange) Apply(eo ExchangeOrder) {
	tOrderRecv := e.clock.Now()
	e.ordersReceived++

	if eo.GenTimeNS >= e.warmupUntilNS {
		e.strategyTime.Add(eo.StrategyDoneTimeNS - eo.GenTimeNS)
		e.transitTime.Add(tOrderRecv - eo.StrategyDoneTimeNS)
		tickToTrade := tOrderRecv - eo.GenTimeNS
		e.tickToTrade.Add(tickToTrade)
		e.tickToTradeH.Record(tickToTrade)
	}

	o := eo.Order
	id := e.engine.SubmitOrder(o.Symbol, o.Side, o.Type, o.Price, o.Quantity, o.ClientOrderID)
	if id != matcher.InvalidOrderID {
		e.ordersAccepted++
	}
}

// OrdersReceived returns the number of ExchangeOrders applied so far.
func (e *Exchange) OrdersReceived() uint64 { return e.ordersReceived }

// OrdersAccepted returns the number of applied orders the engine accepted
// (non-INVALID_ORDER_ID).
func (e *Exchange) OrdersAccepted() uint64 { return e.ordersAccepted }

// TickToTrade returns the tick-to-trade latency reducer.
func (e *Exchange) TickToTrade() *clock.Stats { return e.tickToTrade }

// TickToTradeHistogram returns the tick-to-trade distribution.
func (e *Exchange) TickToTradeHistogram() *clock.Histogram { return e.tickToTradeH }

// StrategyTime returns the t_strategy_done-t_gen latency reducer.
func (e *Exchange) StrategyTime() *clock.Stats { return e.strategyTime }

// TransitTime returns the t_order_recv-t_strategy_done latency reducer.
func (e *Exchange) TransitTime() *clock.Stats { return e.transitTime }
