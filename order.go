package matcher

// orderHandle indexes a slot in an orderArena. It is the non-owning
// reference the id-index and price levels hold; the zero value means "no
// order" (arena slot 0 is never handed out, mirroring a nil pointer).
type orderHandle uint32

const nilHandle orderHandle = 0

// Order is one resting or in-flight order. While active it lives exactly
// once, inside the orderArena slot its handle names; prev/next form the
// intrusive doubly-linked FIFO within its PriceLevel (zero value nilHandle
// for "no link").
type Order struct {
	ID             OrderID
	Symbol         Symbol
	Side           Side
	Type           OrderType
	Price          Price
	Quantity       Quantity
	FilledQuantity Quantity
	Status         OrderStatus
	EntryTime      int64
	UpdateTime     int64
	ClientID       uint64

	prev, next orderHandle
	inUse      bool
}

// RemainingQuantity is quantity - filled, always in [0, quantity].
func (o *Order) RemainingQuantity() Quantity {
	return o.Quantity - o.FilledQuantity
}

// IsFullyFilled reports whether no quantity remains to be matched.
func (o *Order) IsFullyFilled() bool {
	return o.RemainingQuantity() <= 0
}

// IsActive reports whether the order is still eligible to rest or match.
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// fill records a partial or full execution against this order.
func (o *Order) fill(qty Quantity, ts int64) {
	o.FilledQuantity += qty
	o.UpdateTime = ts
	if o.IsFullyFilled() {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartiallyFilled
	}
}
