package mathutil

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	// BigOne represents a single unit of an asset with precision 8
	BigOne = uint64(math.Pow10(8))
	// BigOneDecimal represents a single unit of an asset with precision 8 as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))

	// Hundred is used by the percent <-> amount conversions
	Hundred = decimal.NewFromInt(100)
)

func init() {
	decimal.DivisionPrecision = 8
}

// FloorDiv returns the integer quotient of x / y truncated toward zero.
// Truncation (never rounding up) keeps derived amounts from exceeding a
// wallet balance. y must not be zero.
func FloorDiv(x, y decimal.Decimal) decimal.Decimal {
	q, _ := x.QuoRem(y, 0)
	return q
}

// MulDiv returns x * num / den truncated to an integer. It returns zero when
// den is zero, which stands for "no price available" in pool math.
func MulDiv(x, num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return FloorDiv(x.Mul(num), den)
}
