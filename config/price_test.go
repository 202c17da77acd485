package config

import (
	"testing"

	"github.com/huangsc/hftcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice_ScalesToFixedPoint(t *testing.T) {
	p, err := ParsePrice("100.50")
	require.NoError(t, err)
	assert.Equal(t, matcher.Price(10_050_000_000), p) // 100.50 * 1e8
}

func TestParsePrice_RejectsGarbage(t *testing.T) {
	_, err := ParsePrice("not-a-number")
	assert.Error(t, err)
}

func TestFormatPrice_IsInverseOfParsePrice(t *testing.T) {
	p, err := ParsePrice("42.125")
	require.NoError(t, err)
	assert.Equal(t, "42.12500000", FormatPrice(p))
}

func TestParsePrice_ZeroAndNegative(t *testing.T) {
	zero, err := ParsePrice("0")
	require.NoError(t, err)
	assert.Equal(t, matcher.Price(0), zero)

	neg, err := ParsePrice("-1.5")
	require.NoError(t, err)
	assert.True(t, neg < 0)
}
