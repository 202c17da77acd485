package matcher

// ReportKind enumerates the observable execution-report transitions.
type ReportKind uint8

const (
	ReportNew ReportKind = iota
	ReportTrade
	ReportCancelled
	ReportRejected
	ReportReplaced
)

func (k ReportKind) String() string {
	switch k {
	case ReportNew:
		return "NEW"
	case ReportTrade:
		return "TRADE"
	case ReportCancelled:
		return "CANCELLED"
	case ReportRejected:
		return "REJECTED"
	case ReportReplaced:
		return "REPLACED"
	default:
		return "UNKNOWN"
	}
}

// ExecutionReport is emitted for every observable transition on an order.
// For a TRADE it carries this order's id, the contra order's id, the
// execution price (always the passive/resting side's price) and quantity,
// this order's side, and its post-fill leaves/cumulative quantities.
type ExecutionReport struct {
	Kind            ReportKind
	OrderID         OrderID
	ContraOrderID   OrderID
	Symbol          Symbol
	Side            Side
	Price           Price
	Quantity        Quantity
	LeavesQuantity  Quantity
	CumulativeQty   Quantity
	Timestamp       int64
}

func newReport(kind ReportKind, o *Order) ExecutionReport {
	return ExecutionReport{
		Kind:           kind,
		OrderID:        o.ID,
		Symbol:         o.Symbol,
		Side:           o.Side,
		Price:          o.Price,
		LeavesQuantity: o.RemainingQuantity(),
		CumulativeQty:  o.FilledQuantity,
		Timestamp:      o.UpdateTime,
	}
}

func newTradeReport(self, contra *Order, execPrice Price, execQty Quantity, ts int64) ExecutionReport {
	return ExecutionReport{
		Kind:           ReportTrade,
		OrderID:        self.ID,
		ContraOrderID:  contra.ID,
		Symbol:         self.Symbol,
		Side:           self.Side,
		Price:          execPrice,
		Quantity:       execQty,
		LeavesQuantity: self.RemainingQuantity(),
		CumulativeQty:  self.FilledQuantity,
		Timestamp:      ts,
	}
}

// ExecutionCallback receives every NEW/TRADE/CANCELLED/REJECTED/REPLACED
// report a book produces, in the order the book produces them, on the
// thread that called the mutating operation. Callbacks must be
// non-blocking and must not re-enter the book that invoked them.
type ExecutionCallback func(ExecutionReport)

// EventHandler is an ergonomic two-method adapter (OnTrade/OnOrderUpdate)
// for callers who prefer a typed interface over a single untyped
// callback. ToCallback folds it down into the ExecutionCallback the book
// actually requires.
type EventHandler interface {
	OnTrade(report ExecutionReport)
	OnOrderUpdate(report ExecutionReport)
}

// ToCallback adapts h into an ExecutionCallback, routing TRADE reports to
// OnTrade and everything else to OnOrderUpdate.
func ToCallback(h EventHandler) ExecutionCallback {
	return func(r ExecutionReport) {
		if r.Kind == ReportTrade {
			h.OnTrade(r)
		} else {
			h.OnOrderUpdate(r)
		}
	}
}
