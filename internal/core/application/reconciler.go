package application

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/pkg/mathutil"
)

// Side identifies which of the two linked inputs the user is editing.
type Side int

const (
	SideNone Side = iota
	SideAsset
	SideRune
)

// Reconciler keeps a pair of linked amount inputs consistent with each
// other, with their externally supplied maxima and with the percent slider.
// The asset side is held at the asset's input precision (native capped to
// 1e8), the RUNE side at 1e8; counterpart derivation runs through the pool
// ratio on the 1e8 basis. A single-sided reconciler (swap, asym deposit,
// upgrade) skips the counterpart derivation entirely.
type Reconciler struct {
	mtx sync.Mutex

	pool     domain.PoolData
	linked   bool
	selected Side

	assetAmount domain.Amount
	runeAmount  domain.Amount
	maxAsset    domain.Amount
	maxRune     domain.Amount
	percent     int
}

// NewReconciler returns a dual-input reconciler for symmetrical deposits.
func NewReconciler(pool domain.PoolData, maxAsset, maxRune domain.Amount) *Reconciler {
	return &Reconciler{
		pool:        pool,
		linked:      true,
		assetAmount: domain.ZeroAmount(maxAsset.Decimal()),
		runeAmount:  domain.ZeroAmount(maxRune.Decimal()),
		maxAsset:    maxAsset,
		maxRune:     maxRune,
	}
}

// NewSingleSidedReconciler returns a reconciler with no counterpart input.
func NewSingleSidedReconciler(maxAsset domain.Amount) *Reconciler {
	return &Reconciler{
		assetAmount: domain.ZeroAmount(maxAsset.Decimal()),
		runeAmount:  domain.ZeroAmount(domain.MaxPoolDecimal),
		maxAsset:    maxAsset,
		maxRune:     domain.ZeroAmount(domain.MaxPoolDecimal),
	}
}

// Select marks which input field currently has focus. Amount changes for a
// non-selected side are ignored, mirroring focus semantics of the inputs.
func (r *Reconciler) Select(side Side) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.selected = side
}

func (r *Reconciler) Selected() Side {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.selected
}

// ChangeAssetAmount applies a text entry on the asset side: clamp to the
// asset max, derive the RUNE counterpart through the pool ratio, and pin to
// the RUNE max (forcing percent 100) if the derivation overshoots it.
func (r *Reconciler) ChangeAssetAmount(amount domain.Amount) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.selected != SideAsset {
		return
	}

	a := amount.Rescale(r.maxAsset.Decimal())
	if a.GT(r.maxAsset) {
		a = r.maxAsset
	}

	if !r.linked {
		r.assetAmount = a
		r.percent = percentOf(a, r.maxAsset)
		return
	}

	runeAmount := domain.ValueOfAssetInRune(a, r.pool).Rescale(r.maxRune.Decimal())
	if runeAmount.GT(r.maxRune) {
		r.runeAmount = r.maxRune
		derived := domain.ValueOfRuneInAsset(r.maxRune, r.pool).Rescale(r.maxAsset.Decimal())
		if derived.GT(r.maxAsset) {
			derived = r.maxAsset
		}
		r.assetAmount = derived
		r.percent = 100
		return
	}

	r.assetAmount = a
	r.runeAmount = runeAmount
	r.percent = percentOf(a, r.maxAsset)
}

// ChangeRuneAmount is the symmetric mirror of ChangeAssetAmount with the
// roles of the two sides swapped. It is a no-op for single-sided flows.
func (r *Reconciler) ChangeRuneAmount(amount domain.Amount) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.selected != SideRune || !r.linked {
		return
	}

	runeAmount := amount.Rescale(r.maxRune.Decimal())
	if runeAmount.GT(r.maxRune) {
		runeAmount = r.maxRune
	}

	assetAmount := domain.ValueOfRuneInAsset(runeAmount, r.pool).Rescale(r.maxAsset.Decimal())
	if assetAmount.GT(r.maxAsset) {
		r.assetAmount = r.maxAsset
		derived := domain.ValueOfAssetInRune(r.maxAsset, r.pool).Rescale(r.maxRune.Decimal())
		if derived.GT(r.maxRune) {
			derived = r.maxRune
		}
		r.runeAmount = derived
		r.percent = 100
		return
	}

	r.runeAmount = runeAmount
	r.assetAmount = assetAmount
	r.percent = percentOf(runeAmount, r.maxRune)
}

// ChangePercent drives both sides from the slider. Each side is derived from
// its own max independently of the pool ratio, truncating toward zero so an
// amount can never exceed a wallet balance.
func (r *Reconciler) ChangePercent(percent int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.assetAmount = scaleByPercent(r.maxAsset, percent)
	if r.linked {
		r.runeAmount = scaleByPercent(r.maxRune, percent)
	}
	r.percent = percent
}

// SetMaxAmounts replaces the maxima and re-clamps the held amounts, as when
// a fee re-quote shrinks the available balance. It runs on every max change,
// not only on user input.
func (r *Reconciler) SetMaxAmounts(maxAsset, maxRune domain.Amount) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.maxAsset = maxAsset
	r.maxRune = maxRune
	r.assetAmount = r.assetAmount.Rescale(maxAsset.Decimal())
	if r.assetAmount.GT(maxAsset) {
		r.assetAmount = maxAsset
	}
	if r.linked {
		r.runeAmount = r.runeAmount.Rescale(maxRune.Decimal())
		if r.runeAmount.GT(maxRune) {
			r.runeAmount = maxRune
		}
	}
}

// SetPoolData replaces the pool snapshot used for counterpart derivation.
func (r *Reconciler) SetPoolData(pool domain.PoolData) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.pool = pool
}

func (r *Reconciler) AssetAmount() domain.Amount {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.assetAmount
}

func (r *Reconciler) RuneAmount() domain.Amount {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.runeAmount
}

func (r *Reconciler) Percent() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.percent
}

func (r *Reconciler) MaxAssetAmount() domain.Amount {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.maxAsset
}

func (r *Reconciler) MaxRuneAmount() domain.Amount {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.maxRune
}

// percentOf computes floor(amount / max * 100), 0 when max is zero. Both
// operands share the same precision at every call site.
func percentOf(amount, max domain.Amount) int {
	if max.IsZero() {
		return 0
	}
	p := int(mathutil.MulDiv(amount.Value(), mathutil.Hundred, max.Value()).IntPart())
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// scaleByPercent computes floor(max * percent / 100) at max's precision.
func scaleByPercent(max domain.Amount, percent int) domain.Amount {
	v := mathutil.MulDiv(max.Value(), decimal.NewFromInt(int64(percent)), mathutil.Hundred)
	return domain.NewAmountFromDecimal(v, max.Decimal())
}
