// Package ports declares the interfaces of the external collaborators the
// core consumes: chain clients for fees and submissions, the market data
// service for pools and balances, and the keystore gate. The core never
// performs network I/O itself; implementations live outside this module.
package ports

import (
	"context"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/pkg/option"
)

// SubmitEventType discriminates the events reported by a Submitter stream.
type SubmitEventType int

const (
	// SubmitProgress carries a step number of the running submission
	SubmitProgress SubmitEventType = iota
	// SubmitLegSucceeded carries the tx id of a completed leg
	SubmitLegSucceeded
	// SubmitLegFailed carries the terminal error of a leg
	SubmitLegFailed
)

// SubmitEvent is one progress report of an in-flight submission. Progress
// events carry Step; leg events carry Leg plus TxID or Err.
type SubmitEvent struct {
	Type SubmitEventType
	Step int
	Leg  int
	TxID string
	Err  error
}

// FeeEstimator resolves current network fee estimates per flow kind.
type FeeEstimator interface {
	SwapFees(ctx context.Context, params domain.SwapFeesParams) (domain.SwapFees, error)
	SymDepositFees(ctx context.Context, params domain.SymDepositParams) (domain.DepositFees, error)
	AsymDepositFees(ctx context.Context, params domain.AsymDepositParams) (domain.DepositFees, error)
	UpgradeFee(ctx context.Context, params domain.UpgradeParams) (domain.Amount, error)
	ApproveFee(ctx context.Context, params domain.ApproveParams) (domain.Amount, error)
}

// BalanceProvider exposes wallet balances as of the last reload. A balance
// is none when the wallet holds no entry for the asset yet.
type BalanceProvider interface {
	Balance(asset domain.Asset) option.Option[domain.Amount]
}

// PoolProvider exposes pool reserve snapshots and the USD pricing pool.
type PoolProvider interface {
	PoolData(ctx context.Context, asset domain.Asset) (domain.PoolData, error)
	USDPool(ctx context.Context) (domain.PoolData, error)
}

// TokenApprover runs ERC-20 approvals and allowance checks.
type TokenApprover interface {
	Approve(ctx context.Context, params domain.ApproveParams) (string, error)
	Allowance(ctx context.Context, params domain.ApproveParams) (bool, error)
}

// SecretValidator is the opaque keystore gate invoked before any submission.
type SecretValidator interface {
	Validate(ctx context.Context, secret string) error
}

// Submitter sends the transaction(s) of one flow and streams progress and
// per-leg results until the channel is closed. It is the only side-effecting
// call the core issues.
type Submitter interface {
	SubmitSwap(ctx context.Context, params domain.SwapParams) (<-chan SubmitEvent, error)
	SubmitAsymDeposit(ctx context.Context, params domain.AsymDepositParams) (<-chan SubmitEvent, error)
	SubmitSymDeposit(ctx context.Context, params domain.SymDepositParams) (<-chan SubmitEvent, error)
	SubmitUpgrade(ctx context.Context, params domain.UpgradeParams) (<-chan SubmitEvent, error)
}
