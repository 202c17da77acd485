package pipeline

import "github.com/huangsc/hftcore"

// StrategyFunc consumes one Tick and returns the orders it wants to place.
// Built-in strategies and user-supplied ones share this same callback
// shape.
type StrategyFunc func(t Tick) []StrategyOrder

var nextClientOrderID uint64

func newClientOrderID() uint64 {
	nextClientOrderID++
	return nextClientOrderID
}

// PassThrough emits one order per tick, alternating sides, at the tick's
// mid-price.
func PassThrough() StrategyFunc {
	var buySide = true
	return func(t Tick) []StrategyOrder {
		side := matcher.Sell
		if buySide {
			side = matcher.Buy
		}
		buySide = !buySide
		return []StrategyOrder{{
			Symbol:        t.Symbol,
			Side:          side,
			Type:          matcher.Limit,
			Price:         t.MidPrice(),
			Quantity:      10,
			ClientOrderID: newClientOrderID(),
		}}
	}
}

// Momentum trades in the direction of the last observed price delta per
// symbol: a rising mid triggers a BUY, a falling mid a SELL, a flat mid no
// order.
func Momentum() StrategyFunc {
	last := make(map[matcher.Symbol]matcher.Price)
	return func(t Tick) []StrategyOrder {
		mid := t.MidPrice()
		prev, seen := last[t.Symbol]
		last[t.Symbol] = mid
		if !seen || mid == prev {
			return nil
		}
		side := matcher.Sell
		if mid > prev {
			side = matcher.Buy
		}
		return []StrategyOrder{{
			Symbol:        t.Symbol,
			Side:          side,
			Type:          matcher.Limit,
			Price:         mid,
			Quantity:      10,
			ClientOrderID: newClientOrderID(),
		}}
	}
}

// MarketMaking quotes symmetrically around the tick's mid-price, one BUY
// and one SELL per tick, each offset from mid by half the tick's own
// bid-ask spread.
func MarketMaking() StrategyFunc {
	return func(t Tick) []StrategyOrder {
		halfSpread := (t.AskPrice - t.BidPrice) / 2
		mid := t.MidPrice()
		return []StrategyOrder{
			{Symbol: t.Symbol, Side: matcher.Buy, Type: matcher.Limit, Price: mid - halfSpread, Quantity: 10, ClientOrderID: newClientOrderID()},
			{Symbol: t.Symbol, Side: matcher.Sell, Type: matcher.Limit, Price: mid + halfSpread, Quantity: 10, ClientOrderID: newClientOrderID()},
		}
	}
}
