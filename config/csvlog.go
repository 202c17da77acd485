package config

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsc/hftcore"
)

// csvHeader is the fixed column order of the result log.
var csvHeader = []string{"timestamp_ns", "order_id", "latency_ns", "side", "price", "quantity", "symbol"}

// ResultLog appends one CSV row per order event. It is append-only:
// persisted state is a log file, never read back by the core.
type ResultLog struct {
	w *csv.Writer
}

// NewResultLog wraps w, writing the header row immediately.
func NewResultLog(w io.Writer) (*ResultLog, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("config: writing csv header: %w", err)
	}
	return &ResultLog{w: cw}, nil
}

// Row is one CSV record. Numeric fields are decimal integers (Price is
// the raw fixed-point matcher.Price, not a human-readable decimal string);
// Side must be "BUY", "SELL", or "TICK"; Symbol is the human string form.
type Row struct {
	TimestampNS int64
	OrderID     uint64
	LatencyNS   int64
	Side        string
	Price       matcher.Price
	Quantity    matcher.Quantity
	Symbol      string
}

// Write appends r as one row and flushes immediately, since the log is
// meant to survive an abrupt process exit mid-run.
func (l *ResultLog) Write(r Row) error {
	err := l.w.Write([]string{
		fmt.Sprintf("%d", r.TimestampNS),
		fmt.Sprintf("%d", r.OrderID),
		fmt.Sprintf("%d", r.LatencyNS),
		r.Side,
		fmt.Sprintf("%d", int64(r.Price)),
		fmt.Sprintf("%d", int64(r.Quantity)),
		r.Symbol,
	})
	if err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}
