// Command hftbench drives the matching core under synthetic load and
// reports tick-to-trade latency. `-selftest` runs the built-in self-test
// suite; `-config <path>` runs a benchmark against a configuration file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsc/hftcore"
	"github.com/huangsc/hftcore/clock"
	"github.com/huangsc/hftcore/config"
	"github.com/huangsc/hftcore/pipeline"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a JSON production-config logger. If logPath is set, it
// tees every entry to that file in addition to stdout.
func newLogger(logPath string) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if logPath == "" {
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zap.InfoLevel)
		return zap.New(core), nil
	}

	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("hftbench: creating log dir: %w", err)
		}
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("hftbench: opening log file: %w", err)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), zap.InfoLevel),
	)
	return zap.New(core), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("hftbench", flag.ContinueOnError)
	selftest := fs.Bool("selftest", false, "run the built-in self-test suite")
	configPath := fs.String("config", "", "path to a benchmark configuration document")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *selftest {
		logger, err := newLogger("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "hftbench: logger init: %v\n", err)
			return 2
		}
		defer logger.Sync()
		if runSelfTest(logger) {
			return 0
		}
		return 1
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: hftbench -config <path> | hftbench -selftest")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hftbench: configuration error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hftbench: logger init: %v\n", err)
		return 2
	}
	defer logger.Sync()

	report, err := runBenchmark(cfg, logger)
	if err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		return 2
	}

	printReport(report)
	return 0
}

func runBenchmark(cfg config.Config, logger *zap.Logger) (pipeline.Report, error) {
	engine := matcher.NewMatchEngine(cfg.PoolCapacity, clock.Default())

	basePrice, err := config.ParsePrice(cfg.BasePrice)
	if err != nil {
		return pipeline.Report{}, err
	}
	tickSize, err := config.ParsePrice(cfg.TickSize)
	if err != nil {
		return pipeline.Report{}, err
	}

	for i := 0; i < cfg.NumSymbols; i++ {
		engine.AddInstrument(matcher.NewSymbol(symbolName(cfg.SymbolPrefix, i)))
	}

	strategy := strategyFor(cfg.Strategy)

	hcfg := pipeline.HarnessConfig{
		GeneratorConfig: pipeline.GeneratorConfig{
			RatePerSec:       cfg.MessageRate,
			Pattern:          patternFor(cfg.MessagePattern),
			NumSymbols:       cfg.NumSymbols,
			SymbolPrefix:     cfg.SymbolPrefix,
			GapPauseNS:       int64(cfg.GapPauseMS) * 1_000_000,
			GapBurstCount:    cfg.GapBurstCount,
			GapIntervalSec:   cfg.GapIntervalSec,
			TradeSignalRatio: cfg.TradeSignalRatio,
			JitterMinNS:      int64(cfg.JitterMinNS),
			JitterMaxNS:      int64(cfg.JitterMaxNS),
			WarmupSec:        cfg.WarmupSec,
			BasePrice:        basePrice,
			TickSize:         tickSize,
			Volatility:       cfg.Volatility,
		},
		DurationSec: cfg.DurationSec,
		Pipelined:   cfg.Mode == config.ModePipeline,
	}

	logger.Info("starting benchmark",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("message_rate", cfg.MessageRate),
		zap.String("strategy", string(cfg.Strategy)),
		zap.Int("duration_sec", cfg.DurationSec),
	)

	h := pipeline.NewHarness(hcfg, engine, strategy, clock.Default(), logger)
	report := h.Run()

	if cfg.LogFile != "" {
		if err := writeResultLog(cfg.LogFile, report); err != nil {
			logger.Warn("result log write failed", zap.Error(err))
		}
	}

	return report, nil
}

func writeResultLog(path string, report pipeline.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	log, err := config.NewResultLog(f)
	if err != nil {
		return err
	}
	return log.Write(config.Row{
		TimestampNS: 0,
		OrderID:     0,
		LatencyNS:   int64(report.TickToTrade.Median),
		Side:        "TICK",
		Price:       0,
		Quantity:    matcher.Quantity(report.OrdersReceived),
		Symbol:      "SUMMARY",
	})
}

func symbolName(prefix string, i int) string {
	if prefix == "" {
		prefix = "SYM"
	}
	return fmt.Sprintf("%s%d", prefix, i)
}

func strategyFor(kind config.StrategyKind) pipeline.StrategyFunc {
	switch kind {
	case config.StrategyMomentum:
		return pipeline.Momentum()
	case config.StrategyMarketMaking:
		return pipeline.MarketMaking()
	default:
		return pipeline.PassThrough()
	}
}

func patternFor(p config.MessagePattern) pipeline.MessagePattern {
	if p == config.PatternPoisson {
		return pipeline.Poisson
	}
	return pipeline.Uniform
}

func printReport(r pipeline.Report) {
	fmt.Printf("orders_received=%d orders_accepted=%d throughput=%.0f/s\n", r.OrdersReceived, r.OrdersAccepted, r.Throughput)
	fmt.Printf("tick_to_trade: min=%.0f mean=%.0f median=%.0f p90=%.0f p99=%.0f p99.9=%.0f max=%.0f stddev=%.0f\n",
		r.TickToTrade.Min, r.TickToTrade.Mean, r.TickToTrade.Median, r.TickToTrade.P90, r.TickToTrade.P99, r.TickToTrade.P999, r.TickToTrade.Max, r.TickToTrade.StdDev)
	fmt.Printf("dropped_timestamps=%d queue_overloads=%d warmup_sec=%d warmup_excluded=%v\n",
		r.DroppedTimestamps, r.QueueOverloads, r.WarmupSec, r.WarmupExcluded)
}
