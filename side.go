package matcher

import "sort"

// bookSide keeps one side (bids or asks) of an OrderBook: a map from price
// to PriceLevel for O(1) existence checks and lookup, plus a slice of
// prices kept sorted best-first, with insert positions found by sort.Search
// in O(log n) (the insert itself shifts the slice) and O(1) best-of-book
// access. Bid and ask sides share this one type, told
// apart only by the `better` comparator each is constructed with.
type bookSide struct {
	prices []Price
	levels map[Price]*PriceLevel
	better func(a, b Price) bool // true if a has priority over b on this side
}

func newBookSide(better func(a, b Price) bool) *bookSide {
	return &bookSide{
		levels: make(map[Price]*PriceLevel),
		better: better,
	}
}

func bidBetter(a, b Price) bool { return a > b } // higher is better for bids
func askBetter(a, b Price) bool { return a < b } // lower is better for asks

// best returns the top-of-book level, or nil if the side is empty.
func (s *bookSide) best() *PriceLevel {
	if len(s.prices) == 0 {
		return nil
	}
	return s.levels[s.prices[0]]
}

// level returns the level at price, or nil if absent.
func (s *bookSide) level(price Price) *PriceLevel {
	return s.levels[price]
}

// getOrCreate returns the level at price, inserting a new empty one in
// sorted position if absent.
func (s *bookSide) getOrCreate(price Price) *PriceLevel {
	if lvl, ok := s.levels[price]; ok {
		return lvl
	}

	lvl := newPriceLevel(price)
	s.levels[price] = lvl

	idx := sort.Search(len(s.prices), func(i int) bool {
		return !s.better(s.prices[i], price)
	})
	s.prices = append(s.prices, 0)
	copy(s.prices[idx+1:], s.prices[idx:])
	s.prices[idx] = price
	return lvl
}

// removeIfEmpty drops the level at price from the index when it has no
// resting orders left.
func (s *bookSide) removeIfEmpty(price Price) {
	lvl, ok := s.levels[price]
	if !ok || !lvl.Empty() {
		return
	}
	delete(s.levels, price)

	idx := sort.Search(len(s.prices), func(i int) bool {
		return !s.better(s.prices[i], price) // first index whose price is not strictly-better than `price`
	})
	if idx < len(s.prices) && s.prices[idx] == price {
		s.prices = append(s.prices[:idx], s.prices[idx+1:]...)
	}
}

// empty reports whether the side has no resting levels.
func (s *bookSide) empty() bool {
	return len(s.prices) == 0
}

// depth returns the top-n levels in priority order as (price, aggregate
// quantity, order_count) rows.
func (s *bookSide) depth(n int) []Level {
	out := make([]Level, 0, n)
	for i, p := range s.prices {
		if i >= n {
			break
		}
		lvl := s.levels[p]
		out = append(out, Level{Price: p, Quantity: lvl.TotalQuantity(), OrderCount: lvl.OrderCount()})
	}
	return out
}

// Level is one row of a depth snapshot: (price, aggregate_quantity,
// order_count), in priority order.
type Level struct {
	Price      Price
	Quantity   Quantity
	OrderCount int
}
