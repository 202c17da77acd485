package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsc/hftcore"
	"github.com/huangsc/hftcore/clock"
	"github.com/huangsc/hftcore/queue"
	"go.uber.org/zap"
)

// HarnessConfig selects which stages run on their own goroutine
// (pipeline mode) versus in-thread (single-thread mode), and for how long.
type HarnessConfig struct {
	GeneratorConfig
	DurationSec      int
	StrategyQueueCap int // SPSC capacity between Generator and Strategy, pipeline mode only
	ExchangeQueueCap int // SPSC capacity between Strategy and Exchange, always used
	Pipelined        bool
}

// Harness wires Generator, Strategy, and Exchange together: Generator and
// Strategy run in-thread unless Pipelined, while Strategy and Exchange
// always hand off across an SPSC queue so timestamps bracket the handoff.
type Harness struct {
	cfg       HarnessConfig
	generator *Generator
	strategy  StrategyFunc
	exchange  *Exchange
	exchQ     *queue.SPSC[ExchangeOrder]
	logger    *zap.Logger

	queueOverloads atomic.Uint64
	droppedEvents  atomic.Uint64
}

// NewHarness builds a Harness driving engine via exchange, producing ticks
// from generator and orders from strategy. logger receives start/stop and
// queue-overload events; a nil logger runs silent.
func NewHarness(cfg HarnessConfig, engine *matcher.MatchEngine, strategy StrategyFunc, c *clock.Clock, logger *zap.Logger) *Harness {
	if cfg.ExchangeQueueCap == 0 {
		cfg.ExchangeQueueCap = 4096
	}
	if cfg.StrategyQueueCap == 0 {
		cfg.StrategyQueueCap = 4096
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		cfg:       cfg,
		generator: NewGenerator(cfg.GeneratorConfig, c),
		strategy:  strategy,
		exchange:  NewExchange(engine, c),
		exchQ:     queue.NewSPSC[ExchangeOrder](cfg.ExchangeQueueCap),
		logger:    logger,
	}
}

// queueOverloadThresholdNS is the queue-delay bar: a handoff whose
// producer-side Push into the exchange queue takes longer than this is
// counted as an overload event.
const queueOverloadThresholdNS = 1_000

// Run drives the harness for cfg.DurationSec seconds, with the Exchange
// consuming on its own goroutine; samples generated during the first
// WarmupSec seconds of the run are excluded from the returned Report's
// statistics. It then shuts stages down in strict order: Generator stops,
// Strategy drains and finishes, Exchange drains and finishes, then the
// statistics reducer runs.
func (h *Harness) Run() Report {
	c := h.generator.clock
	deadline := c.Now() + int64(h.cfg.DurationSec)*1e9
	warmupDeadline := c.Now() + int64(h.generator.cfg.WarmupSec)*1e9

	h.logger.Info("harness run starting",
		zap.Bool("pipelined", h.cfg.Pipelined),
		zap.Int("duration_sec", h.cfg.DurationSec),
		zap.Int("warmup_sec", h.generator.cfg.WarmupSec),
	)

	var wg sync.WaitGroup
	var genDone atomic.Bool

	runStage := func(tick Tick) {
		orders := h.strategy(tick)
		tStrategyDone := c.Now()
		for _, o := range orders {
			eo := ExchangeOrder{Order: o, GenTimeNS: tick.GenTimeNS, StrategyDoneTimeNS: tStrategyDone}
			enqueueStart := c.Now()
			h.exchQ.Push(eo)
			if c.Now()-enqueueStart > queueOverloadThresholdNS {
				if n := h.queueOverloads.Add(1); n%1000 == 1 {
					h.logger.Warn("exchange queue handoff exceeded overload threshold",
						zap.Int64("threshold_ns", queueOverloadThresholdNS),
						zap.Uint64("total_overloads", n),
					)
				}
			}
		}
	}

	var strategyDone atomic.Bool
	var exchWG sync.WaitGroup
	h.exchange.SetWarmupUntil(warmupDeadline)
	exchWG.Add(1)
	go func() {
		defer exchWG.Done()
		h.exchange.Consume(h.exchQ, func() bool {
			return strategyDone.Load() && h.exchQ.Empty()
		})
	}()

	if h.cfg.Pipelined {
		tickQ := queue.NewSPSC[Tick](h.cfg.StrategyQueueCap)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !genDone.Load() || !tickQ.Empty() {
				if t, ok := tickQ.TryPop(); ok {
					runStage(t)
				}
			}
		}()
		h.runGenerator(deadline, func(t Tick) { tickQ.Push(t) })
		genDone.Store(true)
	} else {
		h.runGenerator(deadline, runStage)
		genDone.Store(true)
	}
	wg.Wait()
	strategyDone.Store(true)
	exchWG.Wait()

	report := h.buildReport()
	h.logger.Info("harness run finished",
		zap.Uint64("orders_received", report.OrdersReceived),
		zap.Uint64("orders_accepted", report.OrdersAccepted),
		zap.Uint64("queue_overloads", report.QueueOverloads),
	)
	return report
}

func (h *Harness) runGenerator(deadline int64, emit func(Tick)) {
	c := h.generator.clock
	prevDeadline := c.Now()
	for c.Now() < deadline {
		nextDeadline := h.generator.Deadline(prevDeadline, h.generator.cfg.RatePerSec)
		h.generator.SpinUntil(nextDeadline)
		prevDeadline = nextDeadline

		if jitter := h.generator.Jitter(); jitter > 0 {
			h.generator.SpinUntil(c.Now() + jitter)
		}

		t := h.generator.Next()
		if !h.generator.ShouldTrade() {
			continue
		}
		emit(t)
	}
}

// Report is the end-of-run summary.
type Report struct {
	Throughput         float64 // orders/sec
	OrdersReceived     uint64
	OrdersAccepted     uint64
	TickToTrade        clock.Summary
	StrategyTime       clock.Summary
	TransitTime        clock.Summary
	DroppedTimestamps  uint64
	QueueOverloads     uint64
	WarmupSec          int
	WarmupExcluded     bool
}

func (h *Harness) buildReport() Report {
	elapsedSec := float64(h.cfg.DurationSec)
	received := h.exchange.OrdersReceived()
	throughput := 0.0
	if elapsedSec > 0 {
		throughput = float64(received) / elapsedSec
	}
	return Report{
		Throughput:        throughput,
		OrdersReceived:    received,
		OrdersAccepted:    h.exchange.OrdersAccepted(),
		TickToTrade:       h.exchange.TickToTrade().Summarize(),
		StrategyTime:      h.exchange.StrategyTime().Summarize(),
		TransitTime:       h.exchange.TransitTime().Summarize(),
		DroppedTimestamps: h.droppedEvents.Load(),
		QueueOverloads:    h.queueOverloads.Load(),
		WarmupSec:         h.generator.cfg.WarmupSec,
		WarmupExcluded:    h.generator.cfg.WarmupSec > 0,
	}
}

// sleepFallback is a plain wall-clock pause. Nothing in this package or its
// tests calls it; rate control always uses SpinUntil.
func sleepFallback(d time.Duration) { time.Sleep(d) }
