package matcher

import (
	"fmt"
	"strings"
)

// Price is a fixed-point integer: human price * PriceMultiplier. All book
// arithmetic is exact integer arithmetic; no floating point on the hot path.
type Price int64

// PriceMultiplier gives eight decimal places of precision, matching the
// original C++ engine's fixed-point convention.
const PriceMultiplier int64 = 100_000_000

// InvalidPrice is the sentinel for "no price".
const InvalidPrice Price = Price(-1 << 63)

// Quantity is a signed integer, non-negative in all valid states.
type Quantity int64

// OrderID uniquely and monotonically identifies an order within one engine.
type OrderID uint64

// InvalidOrderID is returned by submit_order on any rejection path.
const InvalidOrderID OrderID = 0

// Symbol is a fixed-width 16-byte identifier, NUL-padded. Equality and
// hashing (via Go's native array comparison/map key semantics) are
// byte-wise.
type Symbol [16]byte

// NewSymbol truncates or NUL-pads s to fit a Symbol.
func NewSymbol(s string) Symbol {
	var sym Symbol
	n := copy(sym[:], s)
	_ = n
	return sym
}

// String returns the human string form, trimmed of NUL padding.
func (s Symbol) String() string {
	return strings.TrimRight(string(s[:]), "\x00")
}

// Side is BUY or SELL.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType enumerates the order-type policies the book applies on
// submit: LIMIT/POST_ONLY rest on the book, MARKET/IOC/FOK cancel any
// unfilled remainder instead of resting, and POST_ONLY additionally
// rejects outright if it would cross.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
	IOC
	FOK
	PostOnly
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	case PostOnly:
		return "POST_ONLY"
	default:
		return "UNKNOWN"
	}
}

// OrderStatus tracks an order's lifecycle from acceptance to a terminal
// state (FILLED, CANCELLED, REJECTED, or EXPIRED).
type OrderStatus uint8

const (
	StatusNew OrderStatus = iota
	StatusPartiallyFilled
	StatusFilled
	StatusCancelled
	StatusRejected
	StatusExpired
)

func (s OrderStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusRejected:
		return "REJECTED"
	case StatusExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the status ends an order's life in the book.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCancelled, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// Quote is the top-of-book bid/ask snapshot, defined only when both sides
// are non-empty.
type Quote struct {
	BidPrice    Price
	AskPrice    Price
	BidQuantity Quantity
	AskQuantity Quantity
	Timestamp   int64
}

// Spread returns AskPrice - BidPrice.
func (q Quote) Spread() Price { return q.AskPrice - q.BidPrice }

// MidPrice returns the arithmetic mid of the quote.
func (q Quote) MidPrice() Price { return (q.BidPrice + q.AskPrice) / 2 }

func (p Price) String() string {
	return fmt.Sprintf("%d.%08d", int64(p)/PriceMultiplier, abs64(int64(p)%PriceMultiplier))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
