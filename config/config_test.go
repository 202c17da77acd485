package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	d := Default()
	assert.Equal(t, 10, d.DurationSec)
	assert.Equal(t, ModeSingleThread, d.Mode)
	assert.Equal(t, 100_000, d.MessageRate)
	assert.Equal(t, PatternUniform, d.MessagePattern)
	assert.Equal(t, StrategyPassThrough, d.Strategy)
	assert.Equal(t, "results.csv", d.LogFile)
	assert.Equal(t, "", d.LogPath)
	assert.Equal(t, 1.0, d.TradeSignalRatio)
	assert.Equal(t, 1, d.NumSymbols)
	assert.Equal(t, 1<<20, d.PoolCapacity)
}

func writeDoc(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_OverlaysRecognizedKeys(t *testing.T) {
	path := writeDoc(t, "duration_sec=30\nmode=pipeline\nmessage_rate=250000\nstrategy=momentum\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.DurationSec)
	assert.Equal(t, ModePipeline, cfg.Mode)
	assert.Equal(t, 250_000, cfg.MessageRate)
	assert.Equal(t, StrategyMomentum, cfg.Strategy)
	// Unset keys keep their default.
	assert.Equal(t, "results.csv", cfg.LogFile)
}

func TestLoad_OverlaysLogPath(t *testing.T) {
	path := writeDoc(t, "log_path=/tmp/hftbench-run.log\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hftbench-run.log", cfg.LogPath)
}

func TestLoad_IgnoresUnknownKeys(t *testing.T) {
	path := writeDoc(t, "totally_unknown_key=123\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().DurationSec, cfg.DurationSec)
}

func TestLoad_MalformedValueKeepsDefault(t *testing.T) {
	path := writeDoc(t, "duration_sec=not-a-number\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().DurationSec, cfg.DurationSec)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	assert.Error(t, err)
}

func TestLoad_AffinityParsesIntList(t *testing.T) {
	path := writeDoc(t, "affinity=[0, 1, 2]\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, cfg.Affinity)
}

func TestLoad_PriceAndVolatilityFields(t *testing.T) {
	path := writeDoc(t, "base_price=250.00\ntick_size=0.05\nvolatility=0.002\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "250.00", cfg.BasePrice)
	assert.Equal(t, "0.05", cfg.TickSize)
	assert.Equal(t, 0.002, cfg.Volatility)
}
