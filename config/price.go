package config

import (
	"fmt"

	"github.com/huangsc/hftcore"
	"github.com/shopspring/decimal"
)

// ParsePrice converts a human-readable decimal string (e.g. "100.50") into
// a matcher.Price fixed-point integer, using shopspring/decimal so the
// conversion itself is exact — this is the one place in the repo decimal
// arithmetic is appropriate, at the config/CSV boundary, never on the
// matching hot path.
func ParsePrice(s string) (matcher.Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("config: parsing price %q: %w", s, err)
	}
	scaled := d.Mul(decimal.NewFromInt(matcher.PriceMultiplier))
	return matcher.Price(scaled.IntPart()), nil
}

// FormatPrice renders a matcher.Price fixed-point integer back to its
// human decimal string, the inverse of ParsePrice. The CSV result log
// itself keeps prices as raw integers; this is for any consumer that
// wants the human form instead.
func FormatPrice(p matcher.Price) string {
	d := decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(matcher.PriceMultiplier))
	return d.StringFixed(8)
}
