package application

import (
	"context"
	"sync"
	"time"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/option"
	"github.com/asgardex/asgardex-core/pkg/remote"
)

// SwapFlowConfig wires the collaborators and initial market data of one swap
// flow instance.
type SwapFlowConfig struct {
	Source domain.AssetWithDecimal
	Target domain.AssetWithDecimal
	// TargetAddress is the destination wallet address, none until the wallet
	// derives it for the target chain.
	TargetAddress option.Option[string]
	// PoolAddress is the inbound address of the source chain, none until the
	// address snapshot has loaded.
	PoolAddress option.Option[domain.PoolAddress]
	// Pools holds reserve snapshots keyed by Asset.String(), 1e8 based.
	Pools map[string]domain.PoolData
	// USDPool prices USD-denominated thresholds, none when unavailable.
	USDPool option.Option[domain.PoolData]
	// MinPoolTxUSD is the minimum pool transaction threshold in 1e8 USD.
	MinPoolTxUSD domain.Amount

	Balances  ports.BalanceProvider
	Estimator ports.FeeEstimator
	Approver  ports.TokenApprover
	Submitter ports.Submitter
	Secrets   ports.SecretValidator

	FeeDebounce      time.Duration
	FeeRatePerSecond int
}

// SwapFlow drives a single swap: a single-sided amount input clamped to the
// source balance, a debounced fee quote over both legs, the approval gate for
// ERC-20 sources and a one-leg, three-step submission.
type SwapFlow struct {
	flowCore

	mtx           sync.Mutex
	source        domain.AssetWithDecimal
	target        domain.AssetWithDecimal
	targetAddress option.Option[string]
	poolAddress   option.Option[domain.PoolAddress]
	pools         map[string]domain.PoolData
	usdPool       option.Option[domain.PoolData]
	minPoolTxUSD  domain.Amount

	balances  ports.BalanceProvider
	submitter ports.Submitter

	rec  *Reconciler
	fees *FeeReloader[domain.SwapFeesParams, domain.SwapFees]
	gate *ApprovalGate
}

// NewSwapFlow builds a flow from the given config. Call Start before use and
// Close when the view goes away.
func NewSwapFlow(cfg SwapFlowConfig) *SwapFlow {
	f := &SwapFlow{
		flowCore:      newFlowCore("swap", SwapTotalSteps, SingleLeg, cfg.Secrets),
		source:        cfg.Source,
		target:        cfg.Target,
		targetAddress: cfg.TargetAddress,
		poolAddress:   cfg.PoolAddress,
		pools:         cfg.Pools,
		usdPool:       cfg.USDPool,
		minPoolTxUSD:  cfg.MinPoolTxUSD,
		balances:      cfg.Balances,
		submitter:     cfg.Submitter,
	}
	if f.pools == nil {
		f.pools = map[string]domain.PoolData{}
	}
	f.rec = NewSingleSidedReconciler(f.maxSourceAmount())
	f.fees = NewFeeReloader(
		"swap-fees",
		cfg.Estimator.SwapFees,
		domain.ZeroSwapFees(),
		func(p domain.SwapFeesParams) bool { return p.InTx.Amount.IsZero() },
		cfg.FeeDebounce,
		cfg.FeeRatePerSecond,
	)
	f.gate = NewApprovalGate(cfg.Source.Asset, routerOf(cfg.PoolAddress), cfg.Approver)
	return f
}

// Start launches the fee pipeline, issues the initial allowance check and
// schedules the first quote.
func (f *SwapFlow) Start(ctx context.Context) {
	f.fees.Start()
	f.gate.CheckStatus(ctx)
	f.reloadFees()
}

// Close stops the fee pipeline and waits for a running submission stream to
// drain.
func (f *SwapFlow) Close() error {
	f.fees.Stop()
	return f.wait()
}

// ChangeAmount applies a text entry on the amount input.
func (f *SwapFlow) ChangeAmount(amount domain.Amount) {
	f.rec.Select(SideAsset)
	f.rec.ChangeAssetAmount(amount)
	f.reloadFees()
}

// ChangePercent applies a slider move.
func (f *SwapFlow) ChangePercent(percent int) {
	f.rec.ChangePercent(percent)
	f.reloadFees()
}

// Amount returns the amount to swap at the source input precision.
func (f *SwapFlow) Amount() domain.Amount {
	return f.rec.AssetAmount()
}

// MaxAmount returns the swappable maximum, the source balance capped to 1e8.
func (f *SwapFlow) MaxAmount() domain.Amount {
	return f.rec.MaxAssetAmount()
}

func (f *SwapFlow) Percent() int {
	return f.rec.Percent()
}

// ChangeAssetPair swaps in a new source/target pair. Any entered amount, fee
// quote, approval state and finished submission belongs to the previous pair
// and is dropped.
func (f *SwapFlow) ChangeAssetPair(ctx context.Context, source, target domain.AssetWithDecimal) {
	f.mtx.Lock()
	f.source = source
	f.target = target
	router := routerOf(f.poolAddress)
	approver := f.gate.approver
	f.mtx.Unlock()

	f.sub.Reset()
	f.gate = NewApprovalGate(source.Asset, router, approver)
	f.gate.CheckStatus(ctx)
	f.rec.SetMaxAmounts(f.maxSourceAmount(), domain.ZeroAmount(domain.MaxPoolDecimal))
	f.rec.Select(SideAsset)
	f.rec.ChangeAssetAmount(domain.ZeroAmount(inputDecimal(source)))
	f.reloadFees()
}

// SetTargetAddress records the destination address once the wallet derived it.
func (f *SwapFlow) SetTargetAddress(address option.Option[string]) {
	f.mtx.Lock()
	f.targetAddress = address
	f.mtx.Unlock()
	f.reloadFees()
}

// SetPoolAddress replaces the inbound address snapshot and the approval
// gate's router.
func (f *SwapFlow) SetPoolAddress(address option.Option[domain.PoolAddress]) {
	f.mtx.Lock()
	f.poolAddress = address
	f.mtx.Unlock()
	f.gate.SetRouter(routerOf(address))
	f.reloadFees()
}

// ApplyPoolSnapshot refreshes the reserve snapshots and re-clamps the held
// amount against the recomputed maximum.
func (f *SwapFlow) ApplyPoolSnapshot(snap PoolSnapshot) {
	f.mtx.Lock()
	f.pools = snap.Pools
	f.usdPool = snap.USDPool
	f.mtx.Unlock()
	f.rec.SetMaxAmounts(f.maxSourceAmount(), domain.ZeroAmount(domain.MaxPoolDecimal))
}

// ReloadBalances re-clamps the held amount after a wallet balance refresh.
func (f *SwapFlow) ReloadBalances() {
	f.rec.SetMaxAmounts(f.maxSourceAmount(), domain.ZeroAmount(domain.MaxPoolDecimal))
}

// SwapParams resolves the submission bundle, none while the pool inbound
// address or the destination address is still unknown.
func (f *SwapFlow) SwapParams() option.Option[domain.SwapParams] {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return domain.NewSwapParams(
		f.poolAddress,
		f.source.Asset,
		f.target.Asset,
		f.rec.AssetAmount().Cap1e8(),
		f.source.Decimal,
		f.targetAddress,
	)
}

// FeesParams derives the fee estimation bundle from the submission bundle.
func (f *SwapFlow) FeesParams() option.Option[domain.SwapFeesParams] {
	inTx, ok := f.SwapParams().Value()
	if !ok {
		return option.None[domain.SwapFeesParams]()
	}
	return option.Some(domain.SwapFeesParams{
		InTx: inTx,
		OutTx: domain.SwapOutTx{
			Asset: f.target.Asset,
			Memo:  inTx.Memo,
		},
	})
}

// Fees returns the current quote, holding the last good one while a refresh
// is pending or failed.
func (f *SwapFlow) Fees() remote.Data[domain.SwapFees] {
	return f.fees.CurrentOrLastGood()
}

// FeesState returns the raw quote request state for spinners and retries.
func (f *SwapFlow) FeesState() remote.Data[domain.SwapFees] {
	return f.fees.Current()
}

// ReloadFees re-quotes on demand, as from a retry affordance.
func (f *SwapFlow) ReloadFees() {
	f.reloadFees()
}

// SwapResult estimates the target amount of the entered swap through the
// constant product formula, 1e8 based. RUNE itself has no pool, so one hop
// suffices when RUNE is on either side.
func (f *SwapFlow) SwapResult() domain.Amount {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	amount := f.rec.AssetAmount().Cap1e8()
	switch {
	case f.source.Asset == domain.AssetRuneNative:
		pool, ok := f.poolOf(f.target.Asset)
		if !ok {
			return domain.ZeroAmount(domain.MaxPoolDecimal)
		}
		return domain.SwapOutput(amount, pool, false)
	case f.target.Asset == domain.AssetRuneNative:
		pool, ok := f.poolOf(f.source.Asset)
		if !ok {
			return domain.ZeroAmount(domain.MaxPoolDecimal)
		}
		return domain.SwapOutput(amount, pool, true)
	default:
		poolA, okA := f.poolOf(f.source.Asset)
		poolB, okB := f.poolOf(f.target.Asset)
		if !okA || !okB {
			return domain.ZeroAmount(domain.MaxPoolDecimal)
		}
		return domain.DoubleSwapOutput(amount, poolA, poolB)
	}
}

// MinAmount is the USD minimum threshold priced into the source asset, zero
// while the USD pool is unknown.
func (f *SwapFlow) MinAmount() domain.Amount {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	usdPool, ok := f.usdPool.Value()
	if !ok {
		return domain.ZeroAmount(domain.MaxPoolDecimal)
	}
	if f.source.Asset == domain.AssetRuneNative {
		return domain.ValueOfAssetInRune(f.minPoolTxUSD, usdPool)
	}
	pool, ok := f.poolOf(f.source.Asset)
	if !ok {
		return domain.ZeroAmount(domain.MaxPoolDecimal)
	}
	return domain.ValueOfAsset1InAsset2(f.minPoolTxUSD, usdPool, pool)
}

// MinAmountError reports an entered amount below the pool minimum.
func (f *SwapFlow) MinAmountError() bool {
	amount := f.rec.AssetAmount().Cap1e8()
	return !amount.IsZero() && amount.LT(f.MinAmount())
}

// SourceChainFeeError reports that the source chain's gas balance cannot
// cover the inbound fee.
func (f *SwapFlow) SourceChainFeeError() bool {
	f.mtx.Lock()
	gasAsset := f.source.Asset.Chain.GasAsset()
	f.mtx.Unlock()

	oFee := option.None[domain.Amount]()
	if fees, ok := f.fees.CurrentOrLastGood().Value(); ok {
		oFee = option.Some(fees.InTx)
	}
	oBalance := f.balances.Balance(gasAsset)
	return IsFeeInsufficient(oFee, oBalance, f.rec.AssetAmount().IsZero())
}

// TargetChainFeeError reports a swap result too small to cover the outbound
// fee on the target chain.
func (f *SwapFlow) TargetChainFeeError() bool {
	if f.rec.AssetAmount().IsZero() {
		return false
	}
	result := f.SwapResult()
	return result.LT(f.targetChainFeeInTargetAsset())
}

// targetChainFeeInTargetAsset prices the outbound fee, quoted in the target
// chain's gas asset, into the target asset itself.
func (f *SwapFlow) targetChainFeeInTargetAsset() domain.Amount {
	fees, ok := f.fees.CurrentOrLastGood().Value()
	if !ok {
		return domain.ZeroAmount(domain.MaxPoolDecimal)
	}
	outFee := fees.OutTx

	f.mtx.Lock()
	defer f.mtx.Unlock()

	target := f.target.Asset
	gasAsset := target.Chain.GasAsset()
	if target == gasAsset {
		return outFee
	}
	targetPool, ok := f.poolOf(target)
	if !ok {
		return domain.ZeroAmount(domain.MaxPoolDecimal)
	}
	if gasAsset == domain.AssetRuneNative {
		return domain.ValueOfRuneInAsset(outFee, targetPool)
	}
	gasPool, ok := f.poolOf(gasAsset)
	if !ok {
		return domain.ZeroAmount(domain.MaxPoolDecimal)
	}
	return domain.ValueOfAsset1InAsset2(outFee, gasPool, targetPool)
}

// Approval exposes the ERC-20 approval gate of the source asset.
func (f *SwapFlow) Approval() *ApprovalGate {
	return f.gate
}

// Confirm validates the keystore secret and submits the swap. It fails
// without starting a submission when the parameter bundle is unresolved or a
// submission already runs.
func (f *SwapFlow) Confirm(ctx context.Context, secret string) error {
	params, ok := f.SwapParams().Value()
	if !ok {
		return ErrParamsNotResolved
	}
	return f.confirm(ctx, secret, func(ctx context.Context) (<-chan ports.SubmitEvent, error) {
		return f.submitter.SubmitSwap(ctx, params)
	})
}

// Reset clears the finished submission and the entered amount for a fresh
// swap.
func (f *SwapFlow) Reset() {
	f.sub.Reset()
	f.rec.ChangePercent(0)
	f.reloadFees()
}

func (f *SwapFlow) reloadFees() {
	f.fees.SetParams(f.FeesParams())
}

// maxSourceAmount is the source balance capped to 1e8, zero when the wallet
// holds no entry yet.
func (f *SwapFlow) maxSourceAmount() domain.Amount {
	f.mtx.Lock()
	source := f.source
	f.mtx.Unlock()

	bal, ok := f.balances.Balance(source.Asset).Value()
	if !ok {
		return domain.ZeroAmount(inputDecimal(source))
	}
	return bal.Cap1e8()
}

// poolOf looks a reserve snapshot up, false for RUNE and unknown pools.
// Callers hold f.mtx.
func (f *SwapFlow) poolOf(asset domain.Asset) (domain.PoolData, bool) {
	if asset == domain.AssetRuneNative {
		return domain.PoolData{}, false
	}
	pool, ok := f.pools[asset.String()]
	return pool, ok
}

// routerOf extracts the router contract of a pool address, none when either
// is absent.
func routerOf(oAddress option.Option[domain.PoolAddress]) option.Option[string] {
	address, ok := oAddress.Value()
	if !ok {
		return option.None[string]()
	}
	return address.Router
}
