package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewAmountFloorsNegatives(t *testing.T) {
	t.Parallel()

	a := NewAmount(-5, 8)
	require.True(t, a.IsZero())

	b := NewAmountFromDecimal(decimal.NewFromFloat(-0.5), 8)
	require.True(t, b.IsZero())
}

func TestNewAmountFromDecimalTruncates(t *testing.T) {
	t.Parallel()

	a := NewAmountFromDecimal(decimal.NewFromFloat(12.9), 8)
	require.True(t, a.Value().Equal(decimal.NewFromInt(12)))
}

func TestRescale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    int64
		from, to int
		expected int64
	}{
		{"up shifts left", 1, 8, 18, 10000000000},
		{"down truncates", 123456789, 18, 8, 1},
		{"down loses sub-unit part", 99, 10, 8, 0},
		{"same precision unchanged", 42, 8, 8, 42},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewAmount(tt.value, tt.from).Rescale(tt.to)
			require.Equal(t, tt.to, got.Decimal())
			require.True(t, got.Value().Equal(decimal.NewFromInt(tt.expected)), got.String())
		})
	}
}

func TestRescaleUpIsLossless(t *testing.T) {
	t.Parallel()

	a := NewAmount(12345678, 8)
	roundTrip := a.Rescale(18).Rescale(8)
	require.True(t, a.Equal(roundTrip))
}

func TestCap1e8(t *testing.T) {
	t.Parallel()

	// 1 token at 1e18 precision becomes 1e8 base units
	a := NewAmount(1000000000000000000, 18).Cap1e8()
	require.Equal(t, MaxPoolDecimal, a.Decimal())
	require.True(t, a.Value().Equal(decimal.NewFromInt(100000000)))

	// precisions at or below 1e8 stay untouched
	b := NewAmount(100, 6).Cap1e8()
	require.Equal(t, 6, b.Decimal())
	require.True(t, b.Value().Equal(decimal.NewFromInt(100)))
}

func TestCmpAcrossPrecisions(t *testing.T) {
	t.Parallel()

	oneAt8 := NewAmount(100000000, 8)
	oneAt18 := NewAmount(1000000000000000000, 18)
	require.Equal(t, 0, oneAt8.Cmp(oneAt18))
	require.True(t, oneAt8.Equal(oneAt18))

	bigger := NewAmount(1000000000000000001, 18)
	require.True(t, bigger.GT(oneAt8))
	require.True(t, oneAt8.LT(bigger))
}

func TestAddSub(t *testing.T) {
	t.Parallel()

	a := NewAmount(100, 8)
	b := NewAmount(40, 8)
	require.True(t, a.Add(b).Equal(NewAmount(140, 8)))
	require.True(t, a.Sub(b).Equal(NewAmount(60, 8)))

	// subtraction floors at zero
	require.True(t, b.Sub(a).IsZero())
}
