package matcher

import (
	"sync/atomic"

	"github.com/huangsc/hftcore/clock"
	"github.com/huangsc/hftcore/queue"
)

// EngineStats holds the per-engine running counters. Fields are written
// only by the single goroutine that calls the engine's mutating methods;
// a reader on another goroutine (as with AsyncMatchEngine) must treat a
// concurrently observed snapshot as advisory, not exact.
type EngineStats struct {
	OrdersReceived  uint64
	OrdersMatched   uint64
	OrdersCancelled uint64
	OrdersRejected  uint64
	TotalVolume     Quantity
}

// MatchEngine owns the set of per-symbol order books and routes requests
// by symbol through a single narrow synchronous API. An asynchronous
// hand-off variant, for callers that want a dedicated consumer goroutine
// instead of calling in directly, is AsyncMatchEngine below.
type MatchEngine struct {
	books        map[Symbol]*OrderBook
	poolCapacity int
	nextOrderID  uint64
	callback     ExecutionCallback
	clock        *clock.Clock
	submitLat    *clock.Stats
	stats        EngineStats
}

// NewMatchEngine returns an engine whose books each have room for
// poolCapacity resting orders, timestamping with c (clock.Default() if nil).
func NewMatchEngine(poolCapacity int, c *clock.Clock) *MatchEngine {
	if c == nil {
		c = clock.Default()
	}
	return &MatchEngine{
		books:        make(map[Symbol]*OrderBook),
		poolCapacity: poolCapacity,
		callback:     func(ExecutionReport) {},
		clock:        c,
		submitLat:    clock.NewStats(4096),
	}
}

// SetExecutionCallback replaces the callback fired for every execution
// report a managed book produces, on the calling thread, in the order the
// book produces them.
func (e *MatchEngine) SetExecutionCallback(cb ExecutionCallback) {
	if cb == nil {
		cb = func(ExecutionReport) {}
	}
	e.callback = cb
}

// AddInstrument registers symbol with a fresh empty book. Idempotent:
// returns false if symbol is already registered.
func (e *MatchEngine) AddInstrument(symbol Symbol) bool {
	if _, exists := e.books[symbol]; exists {
		return false
	}
	e.books[symbol] = NewOrderBook(symbol, e.poolCapacity, &e.nextOrderID)
	return true
}

// GetBook returns the book registered for symbol, or nil if unregistered.
func (e *MatchEngine) GetBook(symbol Symbol) *OrderBook {
	return e.books[symbol]
}

// GetQuote returns the top-of-book snapshot for symbol. ok is false if the
// symbol is unregistered or either side is empty.
func (e *MatchEngine) GetQuote(symbol Symbol) (Quote, bool) {
	b, ok := e.books[symbol]
	if !ok {
		return Quote{}, false
	}
	return b.GetQuote(e.clock.Now())
}

// SubmitOrder validates and routes a new order to symbol's book, returning
// InvalidOrderID on unknown symbol, pool exhaustion, a crossing POST_ONLY,
// an under-fillable FOK, or qty <= 0. Latency of the call itself is fed to
// the engine's latency reducer.
func (e *MatchEngine) SubmitOrder(symbol Symbol, side Side, typ OrderType, price Price, qty Quantity, clientID uint64) OrderID {
	start := e.clock.Now()
	defer func() {
		e.submitLat.Add(e.clock.ElapsedNS(start))
	}()

	b, ok := e.books[symbol]
	if !ok {
		e.stats.OrdersRejected++
		rejected := Order{Symbol: symbol, Side: side, Type: typ, Price: price, Quantity: qty, Status: StatusRejected, EntryTime: e.clock.Now(), UpdateTime: e.clock.Now(), ClientID: clientID}
		e.wrap()(newReport(ReportRejected, &rejected))
		return InvalidOrderID
	}

	e.stats.OrdersReceived++
	tradesBefore := b.TradesMatched()

	id := b.Submit(side, typ, price, qty, clientID, e.clock.Now(), e.wrap())
	if id == InvalidOrderID {
		e.stats.OrdersRejected++
		return id
	}
	if b.TradesMatched() > tradesBefore {
		e.stats.OrdersMatched += (b.TradesMatched() - tradesBefore)
	}
	return id
}

// CancelOrder cancels order_id resting on symbol's book. Returns false if
// the symbol is unknown or the order is not found.
func (e *MatchEngine) CancelOrder(symbol Symbol, orderID OrderID) bool {
	b, ok := e.books[symbol]
	if !ok {
		return false
	}
	cancelled := b.Cancel(orderID, e.clock.Now(), e.wrap())
	if cancelled {
		e.stats.OrdersCancelled++
	}
	return cancelled
}

// ModifyOrder applies an in-place or cancel/resubmit modification to
// order_id on symbol's book. Returns false if the symbol or order is
// unknown, or the request is illegal (quantity at or below filled_quantity).
func (e *MatchEngine) ModifyOrder(symbol Symbol, orderID OrderID, newPrice Price, newQty Quantity) bool {
	b, ok := e.books[symbol]
	if !ok {
		return false
	}
	return b.Modify(orderID, newPrice, newQty, e.clock.Now(), e.wrap())
}

// wrap folds in running volume bookkeeping before forwarding every report
// to the registered callback. Each fill emits one TRADE report per side, so
// only the BUY-side report is counted toward TotalVolume.
func (e *MatchEngine) wrap() ExecutionCallback {
	return func(r ExecutionReport) {
		if r.Kind == ReportTrade && r.Side == Buy {
			e.stats.TotalVolume += r.Quantity
		}
		e.callback(r)
	}
}

// Stats returns a snapshot of the engine's running counters.
func (e *MatchEngine) Stats() EngineStats {
	return e.stats
}

// SubmitLatency returns the latency reducer fed with each SubmitOrder
// call's wall-clock duration.
func (e *MatchEngine) SubmitLatency() *clock.Stats {
	return e.submitLat
}

// OrderRequest is one queued mutation for AsyncMatchEngine's consumer
// goroutine to apply against the synchronous MatchEngine it wraps.
type OrderRequest struct {
	Kind     OrderRequestKind
	Symbol   Symbol
	Side     Side
	Type     OrderType
	Price    Price
	Quantity Quantity
	ClientID uint64
	OrderID  OrderID
	Result   chan OrderID // optional: SubmitOrder's assigned id, if non-nil
}

// OrderRequestKind distinguishes the three mutating operations an
// AsyncMatchEngine can queue.
type OrderRequestKind uint8

const (
	RequestSubmit OrderRequestKind = iota
	RequestCancel
	RequestModify
)

// AsyncMatchEngine wraps a MatchEngine with a single dedicated consumer
// goroutine draining an MPSC queue of OrderRequests: any number of
// producer goroutines may call Enqueue, but the wrapped MatchEngine itself
// remains single-threaded and unsynchronized, touched only by the one
// consumer goroutine.
type AsyncMatchEngine struct {
	engine  *MatchEngine
	queue   *queue.MPSC[OrderRequest]
	running atomic.Bool
	done    chan struct{}
}

func NewAsyncMatchEngine(engine *MatchEngine) *AsyncMatchEngine {
	return &AsyncMatchEngine{
		engine: engine,
		queue:  queue.NewMPSC[OrderRequest](),
		done:   make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Idempotent.
func (a *AsyncMatchEngine) Start() {
	if !a.running.CompareAndSwap(false, true) {
		return
	}
	go a.run()
}

// Stop signals the consumer goroutine to exit after draining what's queued.
func (a *AsyncMatchEngine) Stop() {
	if a.running.CompareAndSwap(true, false) {
		<-a.done
	}
}

func (a *AsyncMatchEngine) run() {
	defer close(a.done)
	for a.running.Load() {
		req, ok := a.queue.TryPop()
		if !ok {
			continue
		}
		a.apply(req)
	}
	for {
		req, ok := a.queue.TryPop()
		if !ok {
			return
		}
		a.apply(req)
	}
}

func (a *AsyncMatchEngine) apply(req OrderRequest) {
	switch req.Kind {
	case RequestSubmit:
		id := a.engine.SubmitOrder(req.Symbol, req.Side, req.Type, req.Price, req.Quantity, req.ClientID)
		if req.Result != nil {
			req.Result <- id
		}
	case RequestCancel:
		a.engine.CancelOrder(req.Symbol, req.OrderID)
	case RequestModify:
		a.engine.ModifyOrder(req.Symbol, req.OrderID, req.Price, req.Quantity)
	}
}

// Enqueue hands req to the consumer goroutine. Safe for concurrent use by
// any number of producer goroutines.
func (a *AsyncMatchEngine) Enqueue(req OrderRequest) {
	a.queue.Push(req)
}
