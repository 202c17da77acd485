package matcher

// OrderBook maintains bids and asks for one symbol and runs continuous
// crossing on every insert. Price levels are arena-backed and
// handle-linked, with an order-id index kept alongside for O(1)
// cancel/modify.
type OrderBook struct {
	symbol Symbol
	bids   *bookSide
	asks   *bookSide
	arena  *orderArena
	index  map[OrderID]orderHandle

	nextOrderID *uint64 // shared with the owning MatchEngine

	tradesMatched uint64
	volumeMatched Quantity
}

// NewOrderBook returns an empty book for symbol with a fixed-capacity order
// pool sized poolCapacity, assigning ids from the shared counter nextID.
func NewOrderBook(symbol Symbol, poolCapacity int, nextID *uint64) *OrderBook {
	return &OrderBook{
		symbol:      symbol,
		bids:        newBookSide(bidBetter),
		asks:        newBookSide(askBetter),
		arena:       newOrderArena(poolCapacity),
		index:       make(map[OrderID]orderHandle),
		nextOrderID: nextID,
	}
}

func (b *OrderBook) sideOf(s Side) *bookSide {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) oppositeOf(s Side) *bookSide {
	if s == Buy {
		return b.asks
	}
	return b.bids
}

// crosses reports whether price is marketable against best for a taker on
// side s: for BUY, incoming.price >= best.price; for SELL, incoming.price
// <= best.price. MARKET orders skip this check entirely (see Submit).
func crosses(s Side, incomingPrice, bestPrice Price) bool {
	if s == Buy {
		return incomingPrice >= bestPrice
	}
	return incomingPrice <= bestPrice
}

// wouldCross reports whether an order resting at price would be marketable
// immediately, used by POST_ONLY's pre-insert rejection check.
func (b *OrderBook) wouldCross(s Side, price Price) bool {
	best := b.oppositeOf(s).best()
	if best == nil {
		return false
	}
	return crosses(s, price, best.Price())
}

// availableLiquidity sums remaining quantity on the opposite side at prices
// acceptable to a taker on side s at price limitPrice, used by FOK's
// pre-check. When marketUnlimited is true every level counts regardless of
// price; Submit's FOK check always passes false.
func (b *OrderBook) availableLiquidity(s Side, limitPrice Price, marketUnlimited bool) Quantity {
	opp := b.oppositeOf(s)
	var total Quantity
	for _, p := range opp.prices {
		if !marketUnlimited && !crosses(s, limitPrice, p) {
			break
		}
		total += opp.levels[p].TotalQuantity()
	}
	return total
}

// Submit validates, allocates, and crosses a new order on this book,
// emitting reports to emit as they occur, and returns the assigned id
// (InvalidOrderID on any rejection).
func (b *OrderBook) Submit(side Side, typ OrderType, price Price, qty Quantity, clientID uint64, now int64, emit ExecutionCallback) OrderID {
	if qty <= 0 {
		rejected := Order{Symbol: b.symbol, Side: side, Type: typ, Price: price, Quantity: qty, Status: StatusRejected, EntryTime: now, UpdateTime: now, ClientID: clientID}
		emit(newReport(ReportRejected, &rejected))
		return InvalidOrderID
	}

	if typ == PostOnly && b.wouldCross(side, price) {
		rejected := Order{Symbol: b.symbol, Side: side, Type: typ, Price: price, Quantity: qty, Status: StatusRejected, EntryTime: now, UpdateTime: now, ClientID: clientID}
		emit(newReport(ReportRejected, &rejected))
		return InvalidOrderID
	}

	if typ == FOK {
		marketUnlimited := false
		avail := b.availableLiquidity(side, price, marketUnlimited)
		if avail < qty {
			rejected := Order{Symbol: b.symbol, Side: side, Type: typ, Price: price, Quantity: qty, Status: StatusRejected, EntryTime: now, UpdateTime: now, ClientID: clientID}
			emit(newReport(ReportRejected, &rejected))
			return InvalidOrderID
		}
	}

	*b.nextOrderID++
	id := OrderID(*b.nextOrderID)

	h, ok := b.arena.acquire(Order{
		ID: id, Symbol: b.symbol, Side: side, Type: typ, Price: price, Quantity: qty,
		Status: StatusNew, EntryTime: now, UpdateTime: now, ClientID: clientID,
	})
	if !ok {
		rejected := Order{ID: id, Symbol: b.symbol, Side: side, Type: typ, Price: price, Quantity: qty, Status: StatusRejected, EntryTime: now, UpdateTime: now, ClientID: clientID}
		emit(newReport(ReportRejected, &rejected))
		return InvalidOrderID
	}
	incoming := b.arena.get(h)
	emit(newReport(ReportNew, incoming))

	if typ != PostOnly {
		b.cross(incoming, emit, now)
	}

	if incoming.IsActive() && !incoming.IsFullyFilled() {
		switch typ {
		case Market, IOC, FOK:
			incoming.Status = StatusCancelled
			incoming.UpdateTime = now
			emit(newReport(ReportCancelled, incoming))
			b.arena.release(h)
		default: // LIMIT, POST_ONLY
			b.sideOf(side).getOrCreate(price).addOrder(b.arena, h)
			b.index[id] = h
		}
	} else {
		b.arena.release(h)
	}

	return id
}

// cross runs the crossing loop against incoming's opposite side, mutating
// incoming and resting passive orders and emitting paired TRADE reports,
// until incoming is filled, the opposite side is exhausted, or price no
// longer crosses (MARKET orders never stop on price).
func (b *OrderBook) cross(incoming *Order, emit ExecutionCallback, now int64) {
	opp := b.oppositeOf(incoming.Side)

	for !incoming.IsFullyFilled() {
		best := opp.best()
		if best == nil {
			break
		}
		if incoming.Type != Market && !crosses(incoming.Side, incoming.Price, best.Price()) {
			break
		}

		for !incoming.IsFullyFilled() {
			ph := best.front()
			if ph == nilHandle {
				break
			}
			passive := b.arena.get(ph)

			fill := incoming.RemainingQuantity()
			if passive.RemainingQuantity() < fill {
				fill = passive.RemainingQuantity()
			}
			execPrice := passive.Price

			incoming.fill(fill, now)
			passive.fill(fill, now)
			best.updateQuantity(fill)
			b.tradesMatched++
			b.volumeMatched += fill

			emit(newTradeReport(incoming, passive, execPrice, fill, now))
			emit(newTradeReport(passive, incoming, execPrice, fill, now))

			if passive.IsFullyFilled() {
				best.popFront(b.arena)
				delete(b.index, passive.ID)
				b.arena.release(ph)
			}
		}

		if best.Empty() {
			opp.removeIfEmpty(best.Price())
		}
	}
}

// Cancel looks up id, marks it CANCELLED, unlinks it from its price level,
// and destroys its handle. Returns false if id is unknown.
func (b *OrderBook) Cancel(id OrderID, now int64, emit ExecutionCallback) bool {
	h, ok := b.index[id]
	if !ok {
		return false
	}
	o := b.arena.get(h)
	side := b.sideOf(o.Side)
	lvl := side.level(o.Price)

	lvl.removeOrder(b.arena, h)
	if lvl.Empty() {
		side.removeIfEmpty(o.Price)
	}
	delete(b.index, id)

	o.Status = StatusCancelled
	o.UpdateTime = now
	emit(newReport(ReportCancelled, o))
	b.arena.release(h)
	return true
}

// Modify applies an in-place quantity reduction when price is unchanged and
// newQty is a reduction still above filled_quantity (preserving time
// priority); otherwise performs cancel-then-resubmit, which loses time
// priority. Reducing to or below filled_quantity is illegal and rejected.
// Returns false (and, for the in-place path, the id stays resting
// unchanged) if the request cannot be satisfied.
func (b *OrderBook) Modify(id OrderID, newPrice Price, newQty Quantity, now int64, emit ExecutionCallback) bool {
	h, ok := b.index[id]
	if !ok {
		return false
	}
	o := b.arena.get(h)

	if newQty <= o.FilledQuantity {
		rejected := Order{ID: id, Symbol: b.symbol, Side: o.Side, Type: o.Type, Price: newPrice, Quantity: newQty, FilledQuantity: o.FilledQuantity, Status: StatusRejected, EntryTime: o.EntryTime, UpdateTime: now, ClientID: o.ClientID}
		emit(newReport(ReportRejected, &rejected))
		return false
	}

	if newPrice == o.Price && newQty <= o.Quantity {
		lvl := b.sideOf(o.Side).level(o.Price)
		reduction := o.Quantity - newQty
		o.Quantity = newQty
		o.UpdateTime = now
		lvl.updateQuantity(reduction)
		emit(newReport(ReportReplaced, o))
		return true
	}

	side, typ, clientID := o.Side, o.Type, o.ClientID
	remaining := newQty - o.FilledQuantity
	if !b.Cancel(id, now, emit) {
		return false
	}
	newID := b.Submit(side, typ, newPrice, remaining, clientID, now, emit)
	return newID != InvalidOrderID
}

// BestBid returns the highest resting bid price, or InvalidPrice if the
// bid side is empty.
func (b *OrderBook) BestBid() Price {
	if lvl := b.bids.best(); lvl != nil {
		return lvl.Price()
	}
	return InvalidPrice
}

// BestAsk returns the lowest resting ask price, or InvalidPrice if the ask
// side is empty.
func (b *OrderBook) BestAsk() Price {
	if lvl := b.asks.best(); lvl != nil {
		return lvl.Price()
	}
	return InvalidPrice
}

// GetQuote returns the top-of-book snapshot. ok is false unless both sides
// are non-empty.
func (b *OrderBook) GetQuote(now int64) (q Quote, ok bool) {
	bid, ask := b.bids.best(), b.asks.best()
	if bid == nil || ask == nil {
		return Quote{}, false
	}
	return Quote{
		BidPrice:    bid.Price(),
		AskPrice:    ask.Price(),
		BidQuantity: bid.TotalQuantity(),
		AskQuantity: ask.TotalQuantity(),
		Timestamp:   now,
	}, true
}

// GetDepth returns the top-n levels of each side in priority order.
func (b *OrderBook) GetDepth(n int) (bids, asks []Level) {
	return b.bids.depth(n), b.asks.depth(n)
}

// TradesMatched returns the running count of fills executed on this book.
func (b *OrderBook) TradesMatched() uint64 { return b.tradesMatched }

// VolumeMatched returns the running sum of matched quantity on this book.
func (b *OrderBook) VolumeMatched() Quantity { return b.volumeMatched }
