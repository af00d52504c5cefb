package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/pkg/option"
)

var (
	usdtAsset = domain.Asset{
		Chain:  domain.ETHChain,
		Symbol: "USDT-0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Ticker: "USDT",
	}
	routerAddr = option.Some("0x42A5Ed456650a09Dc10EBc6361A7480fDd61f27B")
)

func TestNeedsApproval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		asset    domain.Asset
		expected bool
	}{
		{"erc20 token", usdtAsset, true},
		{"eth gas asset", domain.AssetETH, false},
		{"non-evm chain", domain.AssetBNB, false},
		{"non-evm token", domain.AssetRuneBNB, false},
		{
			"evm token without contract address",
			domain.Asset{Chain: domain.ETHChain, Symbol: "FOO-BAR", Ticker: "FOO"},
			false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, NeedsApproval(tt.asset))
		})
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.FailNow(t, "condition never met")
}

func TestApprovalGateNotNeededIsApproved(t *testing.T) {
	t.Parallel()

	gate := NewApprovalGate(domain.AssetBNB, option.None[string](), &mockApprover{})
	require.True(t, gate.IsApproved())
	require.Equal(t, ApprovalNotRequired, gate.Status())

	// checks and approvals are no-ops
	gate.CheckStatus(context.Background())
	require.True(t, gate.CheckState().IsNotAsked())
}

func TestApprovalGateUnknownCheckIsNotApproved(t *testing.T) {
	t.Parallel()

	gate := NewApprovalGate(usdtAsset, routerAddr, &mockApprover{})

	// no check issued yet
	require.False(t, gate.IsApproved())
	require.Equal(t, ApprovalRequired, gate.Status())
}

func TestApprovalGateGrantedByExistingAllowance(t *testing.T) {
	t.Parallel()

	approver := &mockApprover{allowance: true}
	gate := NewApprovalGate(usdtAsset, routerAddr, approver)

	gate.CheckStatus(context.Background())
	waitFor(t, func() bool { return gate.CheckState().IsSuccess() })
	require.True(t, gate.IsApproved())
	require.Equal(t, ApprovalGranted, gate.Status())
}

func TestApprovalGateFailedCheckIsNotApproved(t *testing.T) {
	t.Parallel()

	approver := &mockApprover{allowanceErr: errors.New("rpc down")}
	gate := NewApprovalGate(usdtAsset, routerAddr, approver)

	gate.CheckStatus(context.Background())
	waitFor(t, func() bool { return gate.CheckState().IsFailure() })
	require.False(t, gate.IsApproved())
}

func TestApprovalGateGrantedByLocalApproval(t *testing.T) {
	t.Parallel()

	approver := &mockApprover{allowance: false, approveTxID: "0xAPPROVETX"}
	gate := NewApprovalGate(usdtAsset, routerAddr, approver)

	gate.CheckStatus(context.Background())
	waitFor(t, func() bool { return gate.CheckState().IsSuccess() })
	require.False(t, gate.IsApproved())

	gate.Approve(context.Background())
	waitFor(t, func() bool { return gate.ApproveState().IsSuccess() })
	require.True(t, gate.IsApproved())

	txID, ok := gate.ApproveState().Value()
	require.True(t, ok)
	require.Equal(t, "0xAPPROVETX", txID)
}

func TestApprovalGateUnresolvedRouterDisablesActions(t *testing.T) {
	t.Parallel()

	approver := &mockApprover{allowance: true}
	gate := NewApprovalGate(usdtAsset, option.None[string](), approver)

	require.True(t, gate.Params().IsNone())
	gate.CheckStatus(context.Background())
	gate.Approve(context.Background())
	require.True(t, gate.CheckState().IsNotAsked())
	require.True(t, gate.ApproveState().IsNotAsked())

	gate.SetRouter(routerAddr)
	require.True(t, gate.Params().IsSome())
}

func TestApprovalGateResetClearsStates(t *testing.T) {
	t.Parallel()

	approver := &mockApprover{allowance: true}
	gate := NewApprovalGate(usdtAsset, routerAddr, approver)

	gate.CheckStatus(context.Background())
	waitFor(t, func() bool { return gate.CheckState().IsSuccess() })

	gate.Reset()
	require.True(t, gate.CheckState().IsNotAsked())
	require.True(t, gate.ApproveState().IsNotAsked())
	require.False(t, gate.IsApproved())
}
