package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPoolDecimal is the fixed precision all cross-asset pool arithmetic is
// carried at, independent of any chain's native precision.
const MaxPoolDecimal = 8

// Amount is an immutable non-negative integer magnitude expressed in the
// base (atomic) units of an asset, paired with the decimal precision of that
// unit. Two amounts are only comparable after rescaling to a common
// precision; Cmp and friends do that internally, losslessly.
type Amount struct {
	value   decimal.Decimal
	decimal int
}

// NewAmount returns an amount of the given magnitude and precision.
// Negative magnitudes are floored at zero.
func NewAmount(value int64, decimals int) Amount {
	return NewAmountFromDecimal(decimal.NewFromInt(value), decimals)
}

// NewAmountFromDecimal truncates any fractional part of value and floors
// negative magnitudes at zero.
func NewAmountFromDecimal(value decimal.Decimal, decimals int) Amount {
	v := value.Truncate(0)
	if v.IsNegative() {
		v = decimal.Zero
	}
	return Amount{value: v, decimal: decimals}
}

// ZeroAmount returns a zero magnitude at the given precision.
func ZeroAmount(decimals int) Amount {
	return Amount{value: decimal.Zero, decimal: decimals}
}

// Value returns the integer magnitude in base units.
func (a Amount) Value() decimal.Decimal { return a.value }

// Decimal returns the precision of the base unit.
func (a Amount) Decimal() int { return a.decimal }

func (a Amount) IsZero() bool { return a.value.IsZero() }

// Rescale converts the amount to the target precision by shifting the
// magnitude by 10^(target-source), truncating (never rounding up) when
// precision is reduced.
func (a Amount) Rescale(target int) Amount {
	diff := target - a.decimal
	if diff == 0 {
		return a
	}
	return Amount{value: a.value.Shift(int32(diff)).Truncate(0), decimal: target}
}

// Cap1e8 rescales lossy down to the 1e8 pool basis when the amount's
// precision exceeds it, and returns the amount unchanged otherwise.
func (a Amount) Cap1e8() Amount {
	if a.decimal > MaxPoolDecimal {
		return a.Rescale(MaxPoolDecimal)
	}
	return a
}

// Cmp compares two amounts after lossless rescaling to their larger
// precision. It returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	d := a.decimal
	if b.decimal > d {
		d = b.decimal
	}
	return a.Rescale(d).value.Cmp(b.Rescale(d).value)
}

func (a Amount) GT(b Amount) bool { return a.Cmp(b) > 0 }
func (a Amount) LT(b Amount) bool { return a.Cmp(b) < 0 }

// Equal reports value equality at a common precision.
func (a Amount) Equal(b Amount) bool { return a.Cmp(b) == 0 }

// Add returns a + b at the larger precision of the two operands.
func (a Amount) Add(b Amount) Amount {
	d := a.decimal
	if b.decimal > d {
		d = b.decimal
	}
	return Amount{value: a.Rescale(d).value.Add(b.Rescale(d).value), decimal: d}
}

// Sub returns a - b at the larger precision of the two operands, floored at
// zero.
func (a Amount) Sub(b Amount) Amount {
	d := a.decimal
	if b.decimal > d {
		d = b.decimal
	}
	v := a.Rescale(d).value.Sub(b.Rescale(d).value)
	if v.IsNegative() {
		v = decimal.Zero
	}
	return Amount{value: v, decimal: d}
}

func (a Amount) String() string {
	return fmt.Sprintf("%s(1e%d)", a.value.String(), a.decimal)
}
