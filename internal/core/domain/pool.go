package domain

import (
	"github.com/asgardex/asgardex-core/pkg/mathutil"
)

// PoolData is an immutable snapshot of one pool's reserve depths, always
// expressed in the 1e8 pool basis. Snapshots are refreshed externally on a
// polling cadence; the core only reads them.
type PoolData struct {
	AssetDepth Amount
	RuneDepth  Amount
}

// NewPoolData returns a pool snapshot from raw 1e8-based depths.
func NewPoolData(assetDepth, runeDepth int64) PoolData {
	return PoolData{
		AssetDepth: NewAmount(assetDepth, MaxPoolDecimal),
		RuneDepth:  NewAmount(runeDepth, MaxPoolDecimal),
	}
}

// IsEmpty reports whether either reserve is zero, meaning no price is
// available.
func (p PoolData) IsEmpty() bool {
	return p.AssetDepth.IsZero() || p.RuneDepth.IsZero()
}

// ValueOfAssetInRune prices an asset amount in RUNE using the pool's implied
// rate. The amount is normalized to the 1e8 basis first; the result is 1e8
// based. Empty reserves price to zero, no division by zero can occur.
func ValueOfAssetInRune(amount Amount, pool PoolData) Amount {
	if pool.IsEmpty() {
		return ZeroAmount(MaxPoolDecimal)
	}
	a := amount.Cap1e8().Rescale(MaxPoolDecimal)
	v := mathutil.MulDiv(a.Value(), pool.RuneDepth.Value(), pool.AssetDepth.Value())
	return NewAmountFromDecimal(v, MaxPoolDecimal)
}

// ValueOfRuneInAsset prices a RUNE amount in the pool's asset. Same
// conventions as ValueOfAssetInRune.
func ValueOfRuneInAsset(amount Amount, pool PoolData) Amount {
	if pool.IsEmpty() {
		return ZeroAmount(MaxPoolDecimal)
	}
	a := amount.Cap1e8().Rescale(MaxPoolDecimal)
	v := mathutil.MulDiv(a.Value(), pool.AssetDepth.Value(), pool.RuneDepth.Value())
	return NewAmountFromDecimal(v, MaxPoolDecimal)
}

// ValueOfAsset1InAsset2 prices an amount of pool A's asset in pool B's
// asset: A -> RUNE through pool A, then RUNE -> B through pool B. Used to
// price USD-denominated minimum thresholds and outbound fees into the
// currently selected asset.
func ValueOfAsset1InAsset2(amount Amount, poolA, poolB PoolData) Amount {
	return ValueOfRuneInAsset(ValueOfAssetInRune(amount, poolA), poolB)
}

// SwapOutput computes the constant-product swap output x*X*Y/(x+X)^2 for a
// single-pool swap. toRune selects the swap direction.
func SwapOutput(amount Amount, pool PoolData, toRune bool) Amount {
	if pool.IsEmpty() {
		return ZeroAmount(MaxPoolDecimal)
	}
	x := amount.Cap1e8().Rescale(MaxPoolDecimal).Value()
	X := pool.AssetDepth.Value()
	Y := pool.RuneDepth.Value()
	if !toRune {
		X, Y = Y, X
	}
	denom := x.Add(X)
	denom = denom.Mul(denom)
	if denom.IsZero() {
		return ZeroAmount(MaxPoolDecimal)
	}
	out := mathutil.FloorDiv(x.Mul(X).Mul(Y), denom)
	return NewAmountFromDecimal(out, MaxPoolDecimal)
}

// DoubleSwapOutput chains two constant-product swaps through RUNE.
func DoubleSwapOutput(amount Amount, poolA, poolB PoolData) Amount {
	return SwapOutput(SwapOutput(amount, poolA, true), poolB, false)
}
