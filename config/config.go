// Package config loads the benchmark's key-value configuration document: a
// godotenv-formatted file overlaid on a fixed set of documented defaults.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects how the pipeline harness wires its stages together.
type Mode string

const (
	ModeSingleThread Mode = "single_thread"
	ModePipeline     Mode = "pipeline"
	ModeStrategy     Mode = "strategy"
	ModeExchange     Mode = "exchange"
)

// MessagePattern selects the Generator's inter-arrival distribution.
type MessagePattern string

const (
	PatternUniform MessagePattern = "uniform"
	PatternPoisson MessagePattern = "poisson"
)

// StrategyKind selects the built-in Strategy stage implementation.
type StrategyKind string

const (
	StrategyPassThrough   StrategyKind = "pass_through"
	StrategyMomentum      StrategyKind = "momentum"
	StrategyMarketMaking  StrategyKind = "market_making"
	StrategyUser          StrategyKind = "user"
)

// Config is the full set of recognized benchmark options.
type Config struct {
	DurationSec    int
	Mode           Mode
	PipelineStages int
	MessageRate    int
	MessagePattern MessagePattern
	Strategy       StrategyKind
	Affinity       []int
	UsePolling     bool
	LogFile        string
	LogPath        string // optional file tee destination for structured run logs; empty means console only

	GapPauseMS      int
	GapBurstCount   int
	GapIntervalSec  int
	TradeSignalRatio float64
	NumSymbols      int
	SymbolPrefix    string
	JitterMinNS     int
	JitterMaxNS     int
	WarmupSec       int
	BookDepthLevels int
	SimulateFills   bool

	PoolCapacity int

	BasePrice  string // decimal string, e.g. "100.00"; parsed with ParsePrice
	TickSize   string
	Volatility float64
}

// Default returns the documented defaults for every recognized key.
func Default() Config {
	return Config{
		DurationSec:      10,
		Mode:             ModeSingleThread,
		PipelineStages:   2,
		MessageRate:      100_000,
		MessagePattern:   PatternUniform,
		Strategy:         StrategyPassThrough,
		Affinity:         nil,
		UsePolling:       false,
		LogFile:          "results.csv",
		LogPath:          "",
		GapPauseMS:       0,
		GapBurstCount:    0,
		GapIntervalSec:   0,
		TradeSignalRatio: 1.0,
		NumSymbols:       1,
		SymbolPrefix:     "SYM",
		JitterMinNS:      0,
		JitterMaxNS:      0,
		WarmupSec:        0,
		BookDepthLevels:  5,
		SimulateFills:    true,
		PoolCapacity:     1 << 20,
		BasePrice:        "100.00",
		TickSize:         "0.01",
		Volatility:       0.001,
	}
}

// Load reads the key-value document at path (godotenv's KEY=value syntax)
// and overlays it on Default(). Unknown keys are ignored; missing keys
// keep their default. Returns an error only when path cannot be read or
// parsed — a malformed individual value is left at its default rather than
// failing the whole load.
func Load(path string) (Config, error) {
	cfg := Default()

	doc, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if v, ok := doc["duration_sec"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DurationSec = n
		}
	}
	if v, ok := doc["mode"]; ok {
		cfg.Mode = Mode(v)
	}
	if v, ok := doc["pipeline_stages"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PipelineStages = n
		}
	}
	if v, ok := doc["message_rate"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MessageRate = n
		}
	}
	if v, ok := doc["message_pattern"]; ok {
		cfg.MessagePattern = MessagePattern(v)
	}
	if v, ok := doc["strategy"]; ok {
		cfg.Strategy = StrategyKind(v)
	}
	if v, ok := doc["log_file"]; ok {
		cfg.LogFile = v
	}
	if v, ok := doc["log_path"]; ok {
		cfg.LogPath = v
	}
	if v, ok := doc["use_polling"]; ok {
		cfg.UsePolling = v == "true"
	}
	if v, ok := doc["affinity"]; ok {
		cfg.Affinity = parseIntList(v)
	}
	if v, ok := doc["gap_pause_ms"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GapPauseMS = n
		}
	}
	if v, ok := doc["gap_burst_count"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GapBurstCount = n
		}
	}
	if v, ok := doc["gap_interval_sec"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GapIntervalSec = n
		}
	}
	if v, ok := doc["trade_signal_ratio"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TradeSignalRatio = f
		}
	}
	if v, ok := doc["num_symbols"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumSymbols = n
		}
	}
	if v, ok := doc["symbol_prefix"]; ok {
		cfg.SymbolPrefix = v
	}
	if v, ok := doc["jitter_min_ns"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.JitterMinNS = n
		}
	}
	if v, ok := doc["jitter_max_ns"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.JitterMaxNS = n
		}
	}
	if v, ok := doc["warmup_sec"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WarmupSec = n
		}
	}
	if v, ok := doc["book_depth_levels"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BookDepthLevels = n
		}
	}
	if v, ok := doc["simulate_fills"]; ok {
		cfg.SimulateFills = v == "true"
	}
	if v, ok := doc["pool_capacity"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PoolCapacity = n
		}
	}
	if v, ok := doc["base_price"]; ok {
		cfg.BasePrice = v
	}
	if v, ok := doc["tick_size"]; ok {
		cfg.TickSize = v
	}
	if v, ok := doc["volatility"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Volatility = f
		}
	}

	return cfg, nil
}

func parseIntList(v string) []int {
	v = strings.Trim(v, "[] ")
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
