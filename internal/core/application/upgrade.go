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

// UpgradeFlowConfig wires the collaborators of one upgrade flow instance.
// Asset is the legacy token to switch, RUNE-B1A unless stated otherwise.
type UpgradeFlowConfig struct {
	Asset domain.AssetWithDecimal
	// RuneAddress is the THORChain address receiving native RUNE, none until
	// the wallet derives it.
	RuneAddress option.Option[string]
	// PoolAddress is the inbound address of the legacy token's chain.
	PoolAddress option.Option[domain.PoolAddress]

	Balances  ports.BalanceProvider
	Estimator ports.FeeEstimator
	Submitter ports.Submitter
	Secrets   ports.SecretValidator

	FeeDebounce      time.Duration
	FeeRatePerSecond int
}

// UpgradeFlow drives the switch of a legacy RUNE token to native RUNE: one
// amount input clamped to the token balance, a debounced fee quote on the
// token's chain and a one-leg, three-step submission.
type UpgradeFlow struct {
	flowCore

	mtx         sync.Mutex
	asset       domain.AssetWithDecimal
	runeAddress option.Option[string]
	poolAddress option.Option[domain.PoolAddress]

	balances  ports.BalanceProvider
	submitter ports.Submitter

	rec  *Reconciler
	fees *FeeReloader[domain.UpgradeParams, domain.Amount]
}

// NewUpgradeFlow builds a flow from the given config. Call Start before use
// and Close when the view goes away.
func NewUpgradeFlow(cfg UpgradeFlowConfig) *UpgradeFlow {
	asset := cfg.Asset
	if asset.Asset == (domain.Asset{}) {
		asset = domain.AssetWithDecimal{Asset: domain.AssetRuneBNB, Decimal: domain.MaxPoolDecimal}
	}
	f := &UpgradeFlow{
		flowCore:    newFlowCore("upgrade", UpgradeTotalSteps, SingleLeg, cfg.Secrets),
		asset:       asset,
		runeAddress: cfg.RuneAddress,
		poolAddress: cfg.PoolAddress,
		balances:    cfg.Balances,
		submitter:   cfg.Submitter,
	}
	f.rec = NewSingleSidedReconciler(f.maxUpgradeAmount())
	f.fees = NewFeeReloader(
		"upgrade-fee",
		cfg.Estimator.UpgradeFee,
		domain.ZeroAmount(domain.MaxPoolDecimal),
		func(p domain.UpgradeParams) bool { return p.Amount.IsZero() },
		cfg.FeeDebounce,
		cfg.FeeRatePerSecond,
	)
	return f
}

// Start launches the fee pipeline and schedules the first quote.
func (f *UpgradeFlow) Start(ctx context.Context) {
	f.fees.Start()
	f.reloadFees()
}

// Close stops the fee pipeline and waits for a running submission stream to
// drain.
func (f *UpgradeFlow) Close() error {
	f.fees.Stop()
	return f.wait()
}

// ChangeAmount applies a text entry on the amount input.
func (f *UpgradeFlow) ChangeAmount(amount domain.Amount) {
	f.rec.Select(SideAsset)
	f.rec.ChangeAssetAmount(amount)
	f.reloadFees()
}

// ChangePercent applies a slider move.
func (f *UpgradeFlow) ChangePercent(percent int) {
	f.rec.ChangePercent(percent)
	f.reloadFees()
}

func (f *UpgradeFlow) Amount() domain.Amount    { return f.rec.AssetAmount() }
func (f *UpgradeFlow) MaxAmount() domain.Amount { return f.rec.MaxAssetAmount() }
func (f *UpgradeFlow) Percent() int             { return f.rec.Percent() }

// SetRuneAddress records the native RUNE destination once the wallet derived
// it.
func (f *UpgradeFlow) SetRuneAddress(address option.Option[string]) {
	f.mtx.Lock()
	f.runeAddress = address
	f.mtx.Unlock()
	f.reloadFees()
}

// SetPoolAddress replaces the inbound address snapshot.
func (f *UpgradeFlow) SetPoolAddress(address option.Option[domain.PoolAddress]) {
	f.mtx.Lock()
	f.poolAddress = address
	f.mtx.Unlock()
	f.reloadFees()
}

// ReloadBalances re-clamps the held amount after a wallet balance refresh.
func (f *UpgradeFlow) ReloadBalances() {
	f.rec.SetMaxAmounts(f.maxUpgradeAmount(), domain.ZeroAmount(domain.MaxPoolDecimal))
}

// UpgradeParams resolves the submission bundle, none while the inbound
// address or the native RUNE destination is still unknown.
func (f *UpgradeFlow) UpgradeParams() option.Option[domain.UpgradeParams] {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	poolAddress, ok := f.poolAddress.Value()
	if !ok {
		return option.None[domain.UpgradeParams]()
	}
	runeAddress, ok := f.runeAddress.Value()
	if !ok {
		return option.None[domain.UpgradeParams]()
	}
	return option.Some(domain.UpgradeParams{
		PoolAddress: poolAddress,
		Asset:       f.asset.Asset,
		Amount:      f.rec.AssetAmount().Cap1e8().Rescale(f.asset.Decimal),
		Memo:        domain.UpgradeMemo(runeAddress),
	})
}

// Fee returns the current quote, holding the last good one while a refresh
// is pending or failed.
func (f *UpgradeFlow) Fee() remote.Data[domain.Amount] {
	return f.fees.CurrentOrLastGood()
}

// FeeState returns the raw quote request state for spinners and retries.
func (f *UpgradeFlow) FeeState() remote.Data[domain.Amount] {
	return f.fees.Current()
}

// ReloadFee re-quotes on demand.
func (f *UpgradeFlow) ReloadFee() {
	f.reloadFees()
}

// FeeError reports that the legacy chain's gas balance cannot cover the
// upgrade fee.
func (f *UpgradeFlow) FeeError() bool {
	f.mtx.Lock()
	gasAsset := f.asset.Asset.Chain.GasAsset()
	f.mtx.Unlock()

	oFee := option.None[domain.Amount]()
	if fee, ok := f.fees.CurrentOrLastGood().Value(); ok {
		oFee = option.Some(fee)
	}
	oBalance := f.balances.Balance(gasAsset)
	return IsFeeInsufficient(oFee, oBalance, f.rec.AssetAmount().IsZero())
}

// Confirm validates the keystore secret and submits the upgrade.
func (f *UpgradeFlow) Confirm(ctx context.Context, secret string) error {
	params, ok := f.UpgradeParams().Value()
	if !ok {
		return ErrParamsNotResolved
	}
	return f.confirm(ctx, secret, func(ctx context.Context) (<-chan ports.SubmitEvent, error) {
		return f.submitter.SubmitUpgrade(ctx, params)
	})
}

// Reset clears the finished submission and the entered amount.
func (f *UpgradeFlow) Reset() {
	f.sub.Reset()
	f.rec.ChangePercent(0)
	f.reloadFees()
}

func (f *UpgradeFlow) reloadFees() {
	f.fees.SetParams(f.UpgradeParams())
}

// maxUpgradeAmount is the legacy token balance capped to 1e8.
func (f *UpgradeFlow) maxUpgradeAmount() domain.Amount {
	f.mtx.Lock()
	asset := f.asset
	f.mtx.Unlock()

	bal, ok := f.balances.Balance(asset.Asset).Value()
	if !ok {
		return domain.ZeroAmount(inputDecimal(asset))
	}
	return bal.Cap1e8()
}
