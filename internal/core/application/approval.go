package application

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/option"
	"github.com/asgardex/asgardex-core/pkg/remote"
)

// ApprovalStatus is the tri-state approval precondition of an asset.
type ApprovalStatus int

const (
	// ApprovalNotRequired holds for non-EVM chains and native gas assets
	ApprovalNotRequired ApprovalStatus = iota
	// ApprovalRequired holds for contract tokens without a granted allowance
	ApprovalRequired
	// ApprovalGranted holds once an allowance check or a local approval
	// submission succeeded
	ApprovalGranted
)

// NeedsApproval reports whether a spender contract must be approved before
// the asset can be transferred: only contract tokens on EVM chains qualify.
// Non-EVM chains are treated as "no approval needed".
func NeedsApproval(asset domain.Asset) bool {
	if !asset.Chain.IsEVM() {
		return false
	}
	if asset.IsGasAsset() {
		return false
	}
	return asset.TokenAddress().IsSome()
}

// ApprovalGate tracks the approval precondition of one flow instance. The
// on-chain allowance check and the local approval submission run as
// independent requests with independent result states; either one reaching
// success unlocks the main action.
type ApprovalGate struct {
	mtx    sync.Mutex
	logger *log.Entry

	asset    domain.Asset
	router   option.Option[string]
	approver ports.TokenApprover

	gen          uint64
	cancel       context.CancelFunc
	checkState   remote.Data[bool]
	approveState remote.Data[string]
}

// NewApprovalGate builds a gate for the given asset and the pool's router
// contract, which may be absent.
func NewApprovalGate(asset domain.Asset, router option.Option[string], approver ports.TokenApprover) *ApprovalGate {
	return &ApprovalGate{
		logger:   log.WithField("asset", asset.String()),
		asset:    asset,
		router:   router,
		approver: approver,
		cancel:   func() {},
	}
}

// Params resolves the (spender, token) address pair, none when the router is
// unknown or the asset carries no valid contract address. An unresolvable
// pair silently disables approval actions instead of raising an error.
func (g *ApprovalGate) Params() option.Option[domain.ApproveParams] {
	router, ok := g.router.Value()
	if !ok || !common.IsHexAddress(router) {
		return option.None[domain.ApproveParams]()
	}
	token, ok := g.asset.TokenAddress().Value()
	if !ok {
		return option.None[domain.ApproveParams]()
	}
	return option.Some(domain.ApproveParams{
		Spender: common.HexToAddress(router),
		Token:   token,
	})
}

// CheckStatus issues the external allowance check. It is a no-op when no
// approval is needed or the address pair cannot be resolved; a repeated call
// cancels the effect of the previous in-flight check.
func (g *ApprovalGate) CheckStatus(ctx context.Context) {
	if !NeedsApproval(g.asset) {
		return
	}
	params, ok := g.Params().Value()
	if !ok {
		return
	}

	g.mtx.Lock()
	g.gen++
	gen := g.gen
	g.cancel()
	ctx, g.cancel = context.WithCancel(ctx)
	g.checkState = remote.Pending[bool]()
	g.mtx.Unlock()

	go func() {
		approved, err := g.approver.Allowance(ctx, params)
		g.mtx.Lock()
		defer g.mtx.Unlock()
		if gen != g.gen || ctx.Err() != nil {
			return
		}
		if err != nil {
			g.logger.Debugf("allowance check failed: %v", err)
			g.checkState = remote.Failure[bool](err)
			return
		}
		g.checkState = remote.Success(approved)
	}()
}

// Approve submits the approval transaction. No-op when no approval is
// needed, the address pair is unresolved or an approval is already running.
func (g *ApprovalGate) Approve(ctx context.Context) {
	if !NeedsApproval(g.asset) {
		return
	}
	params, ok := g.Params().Value()
	if !ok {
		return
	}

	g.mtx.Lock()
	if g.approveState.IsPending() {
		g.mtx.Unlock()
		return
	}
	gen := g.gen
	g.approveState = remote.Pending[string]()
	g.mtx.Unlock()

	go func() {
		txID, err := g.approver.Approve(ctx, params)
		g.mtx.Lock()
		defer g.mtx.Unlock()
		if gen != g.gen {
			return
		}
		if err != nil {
			g.approveState = remote.Failure[string](err)
			return
		}
		g.approveState = remote.Success(txID)
	}()
}

// IsApproved reports whether the main action is unlocked: no approval
// needed, or a local approval submission succeeded, or the last external
// check reported an existing allowance.
func (g *ApprovalGate) IsApproved() bool {
	if !NeedsApproval(g.asset) {
		return true
	}
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.approveState.IsSuccess() {
		return true
	}
	return g.checkState.GetOrElse(false)
}

// Status derives the tri-state approval precondition.
func (g *ApprovalGate) Status() ApprovalStatus {
	if !NeedsApproval(g.asset) {
		return ApprovalNotRequired
	}
	if g.IsApproved() {
		return ApprovalGranted
	}
	return ApprovalRequired
}

// CheckState exposes the raw allowance-check request state.
func (g *ApprovalGate) CheckState() remote.Data[bool] {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.checkState
}

// ApproveState exposes the raw approval-submission request state.
func (g *ApprovalGate) ApproveState() remote.Data[string] {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.approveState
}

// Reset cancels any in-flight request and clears both request states.
func (g *ApprovalGate) Reset() {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.gen++
	g.cancel()
	g.cancel = func() {}
	g.checkState = remote.NotAsked[bool]()
	g.approveState = remote.NotAsked[string]()
}

// SetRouter replaces the router address, as when the pool address snapshot
// is refreshed.
func (g *ApprovalGate) SetRouter(router option.Option[string]) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.router = router
}
