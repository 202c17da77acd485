// Package pipeline implements a three-stage Generator → Strategy →
// Exchange harness: synthetic market data drives a strategy callback,
// which drives the matching core, while every stage timestamps its
// handoff so the harness can report tick-to-trade latency.
package pipeline

import "github.com/huangsc/hftcore"

// Tick is one simulated market-data update the Generator emits.
type Tick struct {
	Symbol    matcher.Symbol
	BidPrice  matcher.Price
	AskPrice  matcher.Price
	BidQty    matcher.Quantity
	AskQty    matcher.Quantity
	Sequence  uint64
	GenTimeNS int64 // t_gen: the instant the Generator produced this tick
}

// MidPrice returns the tick's (bid+ask)/2.
func (t Tick) MidPrice() matcher.Price {
	return (t.BidPrice + t.AskPrice) / 2
}

// StrategyOrder is what a Strategy stage emits in response to a Tick.
type StrategyOrder struct {
	Symbol        matcher.Symbol
	Side          matcher.Side
	Type          matcher.OrderType
	Price         matcher.Price
	Quantity      matcher.Quantity
	ClientOrderID uint64
}

// ExchangeOrder is the unit handed from Strategy to Exchange across the
// always-present SPSC queue between those two stages; it carries the
// originating tick's generation timestamp and the strategy's completion
// timestamp so Exchange can compute both transit time and total
// tick-to-trade latency after it records t_order_recv.
type ExchangeOrder struct {
	Order             StrategyOrder
	GenTimeNS         int64 // t_gen, copied from the triggering Tick
	StrategyDoneTimeNS int64 // t_strategy_done
}
