package pipeline

import (
	"math"
	"math/rand"
	"runtime"

	"github.com/huangsc/hftcore"
	"github.com/huangsc/hftcore/clock"
)

// GeneratorConfig holds the tick-production knobs: rate and inter-arrival
// pattern, symbol fan-out, gap/jitter/warmup shaping, and the random-walk
// price model's starting point and volatility. The walk itself is a
// minimal seedable movement, just enough to drive realistic ticks through
// the pipeline under test, not a full market-data simulator.
type GeneratorConfig struct {
	RatePerSec       int
	Pattern          MessagePattern
	NumSymbols       int
	SymbolPrefix     string
	GapPauseNS       int64
	GapBurstCount    int
	GapIntervalSec   int
	TradeSignalRatio float64
	JitterMinNS      int64
	JitterMaxNS      int64
	WarmupSec        int
	BasePrice        matcher.Price
	TickSize         matcher.Price
	Volatility       float64
	Seed             int64
}

// MessagePattern selects the Generator's inter-arrival distribution.
type MessagePattern int

const (
	Uniform MessagePattern = iota
	Poisson
)

// Generator produces Ticks at a configured rate, using a deadline
// busy-wait for rate control.
type Generator struct {
	cfg     GeneratorConfig
	rng     *rand.Rand
	clock   *clock.Clock
	prices  []matcher.Price // one random-walk price per symbol, round-robin
	symbols []matcher.Symbol
	seq     uint64
}

// NewGenerator builds a Generator over cfg.NumSymbols symbols named
// "<prefix><i>".
func NewGenerator(cfg GeneratorConfig, c *clock.Clock) *Generator {
	if cfg.NumSymbols < 1 {
		cfg.NumSymbols = 1
	}
	if c == nil {
		c = clock.Default()
	}
	g := &Generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		clock:   c,
		prices:  make([]matcher.Price, cfg.NumSymbols),
		symbols: make([]matcher.Symbol, cfg.NumSymbols),
	}
	for i := 0; i < cfg.NumSymbols; i++ {
		g.symbols[i] = matcher.NewSymbol(symbolName(cfg.SymbolPrefix, i))
		g.prices[i] = cfg.BasePrice
	}
	return g
}

func symbolName(prefix string, i int) string {
	if prefix == "" {
		prefix = "SYM"
	}
	return prefix + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// Next advances the random walk for the next round-robin symbol and
// returns one Tick, stamped with Now() as t_gen.
func (g *Generator) Next() Tick {
	idx := int(g.seq % uint64(len(g.symbols)))
	symbol := g.symbols[idx]

	delta := g.rng.NormFloat64() * g.cfg.Volatility
	price := g.prices[idx]
	price = price + matcher.Price(float64(price)*delta)
	if g.cfg.TickSize > 0 {
		price = (price / g.cfg.TickSize) * g.cfg.TickSize
	}
	if price <= 0 {
		price = g.cfg.BasePrice
	}
	g.prices[idx] = price

	t := Tick{
		Symbol:    symbol,
		BidPrice:  price - g.cfg.TickSize,
		AskPrice:  price + g.cfg.TickSize,
		BidQty:    100,
		AskQty:    100,
		Sequence:  g.seq,
		GenTimeNS: g.clock.Now(),
	}
	g.seq++
	return t
}

// ShouldTrade applies Bernoulli thinning at TradeSignalRatio, deciding
// whether this tick should be forwarded to the Strategy stage as a trade
// signal rather than discarded.
func (g *Generator) ShouldTrade() bool {
	if g.cfg.TradeSignalRatio >= 1.0 {
		return true
	}
	return g.rng.Float64() < g.cfg.TradeSignalRatio
}

// Jitter returns a uniform delay in [JitterMinNS, JitterMaxNS) to apply
// before the next emission, or JitterMinNS when JitterMaxNS <= JitterMinNS
// (0 when no jitter is configured).
func (g *Generator) Jitter() int64 {
	if g.cfg.JitterMaxNS <= g.cfg.JitterMinNS {
		return g.cfg.JitterMinNS
	}
	span := g.cfg.JitterMaxNS - g.cfg.JitterMinNS
	return g.cfg.JitterMinNS + g.rng.Int63n(span)
}

// Deadline computes the absolute nanosecond deadline for the next
// emission after prevDeadline: for Uniform, prevDeadline + 1e9/rate; for
// Poisson, an exponential draw with the same mean inter-arrival added to
// the running deadline.
func (g *Generator) Deadline(prevDeadline int64, rate int) int64 {
	meanIntervalNS := 1e9 / float64(rate)
	switch g.cfg.Pattern {
	case Poisson:
		interval := -math.Log(1-g.rng.Float64()) * meanIntervalNS
		return prevDeadline + int64(interval)
	default:
		return prevDeadline + int64(meanIntervalNS)
	}
}

// SpinUntil busy-waits until Now() >= deadline. This is the rate-control
// mechanism that keeps tick production deadline-accurate rather than
// sleep-accurate: no time.Sleep, just a tight poll of the clock.
func (g *Generator) SpinUntil(deadline int64) {
	for g.clock.Now() < deadline {
		runtime.Gosched()
	}
}

// InGapBurst reports whether a tick emitted ticksSinceLastGap ticks after a
// gap pause still belongs to the recovery burst: true while a pause is
// configured (GapPauseNS > 0) and fewer than GapBurstCount ticks have been
// emitted since. Harness.runGenerator does not call it, so a harness run
// applies no gap pause and no burst.
func (g *Generator) InGapBurst(ticksSinceLastGap int) bool {
	return g.cfg.GapPauseNS > 0 && ticksSinceLastGap < g.cfg.GapBurstCount
}
