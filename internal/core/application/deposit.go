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

// SymDepositFlowConfig wires the collaborators of one symmetrical deposit
// flow instance.
type SymDepositFlowConfig struct {
	Asset domain.AssetWithDecimal
	// Pool is the reserve snapshot of the deposit pool, 1e8 based.
	Pool domain.PoolData
	// PoolAddress is the inbound address of the asset chain, none until the
	// address snapshot has loaded.
	PoolAddress option.Option[domain.PoolAddress]
	// Memos holds the memo of each leg, none until both wallet addresses are
	// known.
	Memos option.Option[domain.SymDepositMemo]

	Balances  ports.BalanceProvider
	Estimator ports.FeeEstimator
	Approver  ports.TokenApprover
	Submitter ports.Submitter
	Secrets   ports.SecretValidator

	FeeDebounce      time.Duration
	FeeRatePerSecond int
}

// SymDepositFlow drives a symmetrical deposit: two linked amount inputs kept
// consistent through the pool ratio, a percent slider, fees on both chains,
// the approval gate for ERC-20 assets and a two-leg, four-step submission.
type SymDepositFlow struct {
	flowCore

	mtx         sync.Mutex
	asset       domain.AssetWithDecimal
	pool        domain.PoolData
	poolAddress option.Option[domain.PoolAddress]
	memos       option.Option[domain.SymDepositMemo]

	balances  ports.BalanceProvider
	submitter ports.Submitter

	rec  *Reconciler
	fees *FeeReloader[domain.SymDepositParams, domain.DepositFees]
	gate *ApprovalGate
}

// NewSymDepositFlow builds a flow from the given config. Call Start before
// use and Close when the view goes away.
func NewSymDepositFlow(cfg SymDepositFlowConfig) *SymDepositFlow {
	f := &SymDepositFlow{
		flowCore:    newFlowCore("sym-deposit", SymDepositTotalSteps, SymLegs, cfg.Secrets),
		asset:       cfg.Asset,
		pool:        cfg.Pool,
		poolAddress: cfg.PoolAddress,
		memos:       cfg.Memos,
		balances:    cfg.Balances,
		submitter:   cfg.Submitter,
	}
	maxAsset, maxRune := f.maxAmounts()
	f.rec = NewReconciler(cfg.Pool, maxAsset, maxRune)
	f.fees = NewFeeReloader(
		"sym-deposit-fees",
		cfg.Estimator.SymDepositFees,
		domain.ZeroSymDepositFees(),
		func(p domain.SymDepositParams) bool {
			return p.Amounts.Rune.IsZero() && p.Amounts.Asset.IsZero()
		},
		cfg.FeeDebounce,
		cfg.FeeRatePerSecond,
	)
	f.gate = NewApprovalGate(cfg.Asset.Asset, routerOf(cfg.PoolAddress), cfg.Approver)
	return f
}

// Start launches the fee pipeline, issues the initial allowance check and
// schedules the first quote.
func (f *SymDepositFlow) Start(ctx context.Context) {
	f.fees.Start()
	f.gate.CheckStatus(ctx)
	f.reloadFees()
}

// Close stops the fee pipeline and waits for a running submission stream to
// drain.
func (f *SymDepositFlow) Close() error {
	f.fees.Stop()
	return f.wait()
}

// SelectInput marks which of the two inputs has focus. Amount changes on a
// non-selected side are ignored.
func (f *SymDepositFlow) SelectInput(side Side) {
	f.rec.Select(side)
}

// ChangeAssetAmount applies a text entry on the asset input; the RUNE side
// follows through the pool ratio.
func (f *SymDepositFlow) ChangeAssetAmount(amount domain.Amount) {
	f.rec.ChangeAssetAmount(amount)
	f.reloadFees()
}

// ChangeRuneAmount applies a text entry on the RUNE input; the asset side
// follows through the pool ratio.
func (f *SymDepositFlow) ChangeRuneAmount(amount domain.Amount) {
	f.rec.ChangeRuneAmount(amount)
	f.reloadFees()
}

// ChangePercent drives both inputs from the slider, each from its own max.
func (f *SymDepositFlow) ChangePercent(percent int) {
	f.rec.ChangePercent(percent)
	f.reloadFees()
}

func (f *SymDepositFlow) AssetAmount() domain.Amount { return f.rec.AssetAmount() }
func (f *SymDepositFlow) RuneAmount() domain.Amount  { return f.rec.RuneAmount() }
func (f *SymDepositFlow) Percent() int               { return f.rec.Percent() }

func (f *SymDepositFlow) MaxAssetAmount() domain.Amount { return f.rec.MaxAssetAmount() }
func (f *SymDepositFlow) MaxRuneAmount() domain.Amount  { return f.rec.MaxRuneAmount() }

// SetPool replaces the reserve snapshot, re-derives both maxima and re-clamps
// the held amounts.
func (f *SymDepositFlow) SetPool(pool domain.PoolData) {
	f.mtx.Lock()
	f.pool = pool
	f.mtx.Unlock()
	f.rec.SetPoolData(pool)
	f.recomputeMax()
}

// SetPoolAddress replaces the inbound address snapshot and the approval
// gate's router.
func (f *SymDepositFlow) SetPoolAddress(address option.Option[domain.PoolAddress]) {
	f.mtx.Lock()
	f.poolAddress = address
	f.mtx.Unlock()
	f.gate.SetRouter(routerOf(address))
	f.reloadFees()
}

// SetMemos records the per-leg memos once both wallet addresses are known.
func (f *SymDepositFlow) SetMemos(memos option.Option[domain.SymDepositMemo]) {
	f.mtx.Lock()
	f.memos = memos
	f.mtx.Unlock()
	f.reloadFees()
}

// ReloadBalances re-derives both maxima after a wallet balance refresh.
func (f *SymDepositFlow) ReloadBalances() {
	f.recomputeMax()
}

// DepositParams resolves the submission bundle, none while the pool inbound
// address or a leg memo is still unknown.
func (f *SymDepositFlow) DepositParams() option.Option[domain.SymDepositParams] {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return domain.NewSymDepositParams(
		f.poolAddress,
		f.memos,
		f.asset.Asset,
		f.rec.RuneAmount(),
		f.rec.AssetAmount().Cap1e8(),
		f.asset.Decimal,
	)
}

// Fees returns the current quote, holding the last good one while a refresh
// is pending or failed.
func (f *SymDepositFlow) Fees() remote.Data[domain.DepositFees] {
	return f.fees.CurrentOrLastGood()
}

// FeesState returns the raw quote request state for spinners and retries.
func (f *SymDepositFlow) FeesState() remote.Data[domain.DepositFees] {
	return f.fees.Current()
}

// ReloadFees re-quotes on demand.
func (f *SymDepositFlow) ReloadFees() {
	f.reloadFees()
}

// RuneFeeError reports that the RUNE balance cannot cover the THORChain leg
// fee.
func (f *SymDepositFlow) RuneFeeError() bool {
	oFee := option.None[domain.Amount]()
	if fees, ok := f.fees.CurrentOrLastGood().Value(); ok {
		oFee = fees.Rune
	}
	oBalance := f.balances.Balance(domain.AssetRuneNative)
	return IsFeeInsufficient(oFee, oBalance, f.rec.RuneAmount().IsZero())
}

// AssetFeeError reports that the asset chain's gas balance cannot cover the
// asset leg fee.
func (f *SymDepositFlow) AssetFeeError() bool {
	f.mtx.Lock()
	gasAsset := f.asset.Asset.Chain.GasAsset()
	f.mtx.Unlock()

	oFee := option.None[domain.Amount]()
	if fees, ok := f.fees.CurrentOrLastGood().Value(); ok {
		oFee = option.Some(fees.Asset)
	}
	oBalance := f.balances.Balance(gasAsset)
	return IsFeeInsufficient(oFee, oBalance, f.rec.AssetAmount().IsZero())
}

// Approval exposes the ERC-20 approval gate of the deposit asset.
func (f *SymDepositFlow) Approval() *ApprovalGate {
	return f.gate
}

// Confirm validates the keystore secret and submits both legs. Leg results
// arrive independently; a failed leg ends the submission while the
// counterpart keeps its reached state.
func (f *SymDepositFlow) Confirm(ctx context.Context, secret string) error {
	params, ok := f.DepositParams().Value()
	if !ok {
		return ErrParamsNotResolved
	}
	return f.confirm(ctx, secret, func(ctx context.Context) (<-chan ports.SubmitEvent, error) {
		return f.submitter.SubmitSymDeposit(ctx, params)
	})
}

// Reset clears the finished submission and both entered amounts.
func (f *SymDepositFlow) Reset() {
	f.sub.Reset()
	f.rec.ChangePercent(0)
	f.reloadFees()
}

func (f *SymDepositFlow) reloadFees() {
	f.fees.SetParams(f.DepositParams())
}

func (f *SymDepositFlow) recomputeMax() {
	maxAsset, maxRune := f.maxAmounts()
	f.rec.SetMaxAmounts(maxAsset, maxRune)
}

// maxAmounts derives the depositable maxima. Each side is bounded by its own
// balance and by the counterpart balance priced through the pool, so the pair
// of maxima itself respects the pool ratio.
func (f *SymDepositFlow) maxAmounts() (maxAsset, maxRune domain.Amount) {
	f.mtx.Lock()
	asset := f.asset
	pool := f.pool
	f.mtx.Unlock()

	assetDecimal := inputDecimal(asset)
	assetBal := domain.ZeroAmount(assetDecimal)
	if bal, ok := f.balances.Balance(asset.Asset).Value(); ok {
		assetBal = bal.Cap1e8()
	}
	runeBal := domain.ZeroAmount(domain.MaxPoolDecimal)
	if bal, ok := f.balances.Balance(domain.AssetRuneNative).Value(); ok {
		runeBal = bal
	}

	maxRune = minAmount(runeBal, domain.ValueOfAssetInRune(assetBal, pool))
	maxAsset = minAmount(
		assetBal.Rescale(domain.MaxPoolDecimal),
		domain.ValueOfRuneInAsset(runeBal, pool),
	).Rescale(assetDecimal)
	return maxAsset, maxRune
}

// AsymDepositFlowConfig wires the collaborators of one single-asset deposit
// flow instance.
type AsymDepositFlowConfig struct {
	Asset       domain.AssetWithDecimal
	PoolAddress option.Option[domain.PoolAddress]

	Balances  ports.BalanceProvider
	Estimator ports.FeeEstimator
	Approver  ports.TokenApprover
	Submitter ports.Submitter
	Secrets   ports.SecretValidator

	FeeDebounce      time.Duration
	FeeRatePerSecond int
}

// AsymDepositFlow drives a single-asset deposit: one amount input clamped to
// the balance net of the chain fee, a debounced fee quote and a one-leg,
// three-step submission.
type AsymDepositFlow struct {
	flowCore

	mtx         sync.Mutex
	asset       domain.AssetWithDecimal
	poolAddress option.Option[domain.PoolAddress]

	balances  ports.BalanceProvider
	submitter ports.Submitter

	rec  *Reconciler
	fees *FeeReloader[domain.AsymDepositParams, domain.DepositFees]
	gate *ApprovalGate
}

// NewAsymDepositFlow builds a flow from the given config. Call Start before
// use and Close when the view goes away.
func NewAsymDepositFlow(cfg AsymDepositFlowConfig) *AsymDepositFlow {
	f := &AsymDepositFlow{
		flowCore:    newFlowCore("asym-deposit", AsymDepositTotalSteps, SingleLeg, cfg.Secrets),
		asset:       cfg.Asset,
		poolAddress: cfg.PoolAddress,
		balances:    cfg.Balances,
		submitter:   cfg.Submitter,
	}
	f.fees = NewFeeReloader(
		"asym-deposit-fees",
		cfg.Estimator.AsymDepositFees,
		domain.ZeroAsymDepositFees(),
		func(p domain.AsymDepositParams) bool { return p.Amount.IsZero() },
		cfg.FeeDebounce,
		cfg.FeeRatePerSecond,
	)
	f.rec = NewSingleSidedReconciler(f.maxDepositAmount())
	// a fee re-quote shrinks the gas-asset max, re-clamp reactively
	f.fees.SetOnUpdate(f.recomputeMax)
	f.gate = NewApprovalGate(cfg.Asset.Asset, routerOf(cfg.PoolAddress), cfg.Approver)
	return f
}

// Start launches the fee pipeline, issues the initial allowance check and
// schedules the first quote.
func (f *AsymDepositFlow) Start(ctx context.Context) {
	f.fees.Start()
	f.gate.CheckStatus(ctx)
	f.reloadFees()
}

// Close stops the fee pipeline and waits for a running submission stream to
// drain.
func (f *AsymDepositFlow) Close() error {
	f.fees.Stop()
	return f.wait()
}

// ChangeAmount applies a text entry on the amount input.
func (f *AsymDepositFlow) ChangeAmount(amount domain.Amount) {
	f.rec.Select(SideAsset)
	f.rec.ChangeAssetAmount(amount)
	f.reloadFees()
}

// ChangePercent applies a slider move.
func (f *AsymDepositFlow) ChangePercent(percent int) {
	f.rec.ChangePercent(percent)
	f.reloadFees()
}

func (f *AsymDepositFlow) Amount() domain.Amount    { return f.rec.AssetAmount() }
func (f *AsymDepositFlow) MaxAmount() domain.Amount { return f.rec.MaxAssetAmount() }
func (f *AsymDepositFlow) Percent() int             { return f.rec.Percent() }

// SetPoolAddress replaces the inbound address snapshot and the approval
// gate's router.
func (f *AsymDepositFlow) SetPoolAddress(address option.Option[domain.PoolAddress]) {
	f.mtx.Lock()
	f.poolAddress = address
	f.mtx.Unlock()
	f.gate.SetRouter(routerOf(address))
	f.reloadFees()
}

// ReloadBalances re-clamps the held amount after a wallet balance refresh.
func (f *AsymDepositFlow) ReloadBalances() {
	f.recomputeMax()
}

// DepositParams resolves the submission bundle, none while the pool inbound
// address is still unknown.
func (f *AsymDepositFlow) DepositParams() option.Option[domain.AsymDepositParams] {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	poolAddress, ok := f.poolAddress.Value()
	if !ok {
		return option.None[domain.AsymDepositParams]()
	}
	return option.Some(domain.AsymDepositParams{
		PoolAddress: poolAddress,
		Asset:       f.asset.Asset,
		Amount:      f.rec.AssetAmount().Cap1e8().Rescale(f.asset.Decimal),
		Memo:        domain.DepositMemo(f.asset.Asset, ""),
	})
}

// Fees returns the current quote, holding the last good one while a refresh
// is pending or failed.
func (f *AsymDepositFlow) Fees() remote.Data[domain.DepositFees] {
	return f.fees.CurrentOrLastGood()
}

// FeesState returns the raw quote request state for spinners and retries.
func (f *AsymDepositFlow) FeesState() remote.Data[domain.DepositFees] {
	return f.fees.Current()
}

// ReloadFees re-quotes on demand.
func (f *AsymDepositFlow) ReloadFees() {
	f.reloadFees()
}

// FeeError reports that the chain's gas balance cannot cover the deposit fee.
func (f *AsymDepositFlow) FeeError() bool {
	f.mtx.Lock()
	gasAsset := f.asset.Asset.Chain.GasAsset()
	f.mtx.Unlock()

	oFee := option.None[domain.Amount]()
	if fees, ok := f.fees.CurrentOrLastGood().Value(); ok {
		oFee = option.Some(fees.Asset)
	}
	oBalance := f.balances.Balance(gasAsset)
	return IsFeeInsufficient(oFee, oBalance, f.rec.AssetAmount().IsZero())
}

// Approval exposes the ERC-20 approval gate of the deposit asset.
func (f *AsymDepositFlow) Approval() *ApprovalGate {
	return f.gate
}

// Confirm validates the keystore secret and submits the deposit.
func (f *AsymDepositFlow) Confirm(ctx context.Context, secret string) error {
	params, ok := f.DepositParams().Value()
	if !ok {
		return ErrParamsNotResolved
	}
	return f.confirm(ctx, secret, func(ctx context.Context) (<-chan ports.SubmitEvent, error) {
		return f.submitter.SubmitAsymDeposit(ctx, params)
	})
}

// Reset clears the finished submission and the entered amount.
func (f *AsymDepositFlow) Reset() {
	f.sub.Reset()
	f.rec.ChangePercent(0)
	f.reloadFees()
}

func (f *AsymDepositFlow) reloadFees() {
	f.fees.SetParams(f.DepositParams())
}

func (f *AsymDepositFlow) recomputeMax() {
	f.rec.SetMaxAmounts(f.maxDepositAmount(), domain.ZeroAmount(domain.MaxPoolDecimal))
}

// maxDepositAmount is the balance capped to 1e8; for the chain's own gas
// asset the current fee quote is reserved out of it.
func (f *AsymDepositFlow) maxDepositAmount() domain.Amount {
	f.mtx.Lock()
	asset := f.asset
	f.mtx.Unlock()

	bal, ok := f.balances.Balance(asset.Asset).Value()
	if !ok {
		return domain.ZeroAmount(inputDecimal(asset))
	}
	max := bal.Cap1e8()
	if !asset.Asset.IsGasAsset() {
		return max
	}
	if fees, ok := f.fees.CurrentOrLastGood().Value(); ok {
		max = max.Sub(fees.Asset).Rescale(max.Decimal())
	}
	return max
}
