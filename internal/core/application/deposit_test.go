package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/option"
)

var testMemos = option.Some(domain.SymDepositMemo{
	Rune:  "STAKE:BNB.BNB:bnb1addr",
	Asset: "STAKE:BNB.BNB:thor1addr",
})

func newTestSymDepositFlow(
	balances *mockBalances,
	estimator *mockEstimator,
	submitter *mockSubmitter,
) *SymDepositFlow {
	return NewSymDepositFlow(SymDepositFlowConfig{
		Asset: domain.AssetWithDecimal{Asset: domain.AssetBNB, Decimal: 8},
		Pool:  domain.NewPoolData(100000000000000, 200000000000000),
		PoolAddress: option.Some(domain.PoolAddress{
			Chain:   domain.BNBChain,
			Address: "bnb1inbound",
			Router:  option.None[string](),
		}),
		Memos: testMemos,

		Balances:  balances,
		Estimator: estimator,
		Approver:  &mockApprover{},
		Submitter: submitter,
		Secrets:   &mockSecrets{accepted: "password"},

		FeeDebounce:      testDebounce,
		FeeRatePerSecond: 1000,
	})
}

func TestSymDepositFlowMaximaRespectPoolRatio(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	// 100 BNB against 100 RUNE; at a 1:2 ratio the RUNE balance only
	// covers 50 BNB worth of deposit
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))
	balances.set(domain.AssetRuneNative, domain.NewAmount(10000000000, 8))

	flow := newTestSymDepositFlow(balances, newMockEstimator(), &mockSubmitter{})

	require.True(t, flow.MaxRuneAmount().Equal(domain.NewAmount(10000000000, 8)))
	require.True(t, flow.MaxAssetAmount().Equal(domain.NewAmount(5000000000, 8)))
}

func TestSymDepositFlowLinkedInputs(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))
	balances.set(domain.AssetRuneNative, domain.NewAmount(100000000000, 8))

	flow := newTestSymDepositFlow(balances, newMockEstimator(), &mockSubmitter{})

	flow.SelectInput(SideAsset)
	flow.ChangeAssetAmount(domain.NewAmount(1000000000, 8))
	require.True(t, flow.AssetAmount().Equal(domain.NewAmount(1000000000, 8)))
	require.True(t, flow.RuneAmount().Equal(domain.NewAmount(2000000000, 8)))

	// edits on the unfocused side are ignored
	flow.ChangeRuneAmount(domain.NewAmount(123, 8))
	require.True(t, flow.RuneAmount().Equal(domain.NewAmount(2000000000, 8)))
}

func TestSymDepositFlowFeeErrors(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))
	balances.set(domain.AssetRuneNative, domain.NewAmount(100, 8))

	estimator := newMockEstimator()
	estimator.symFees = domain.DepositFees{
		Asset: domain.NewAmount(7500, domain.MaxPoolDecimal),
		Rune:  option.Some(domain.NewAmount(2000000, domain.MaxPoolDecimal)),
	}

	flow := newTestSymDepositFlow(balances, estimator, &mockSubmitter{})
	flow.Start(context.Background())
	defer flow.Close()

	flow.SelectInput(SideAsset)
	flow.ChangeAssetAmount(domain.NewAmount(50, 8))
	waitFor(t, func() bool {
		fees, ok := flow.Fees().Value()
		return ok && !fees.Asset.IsZero()
	})

	// RUNE balance of 100 cannot cover the 2000000 THORChain fee, the BNB
	// balance easily covers the asset leg
	require.True(t, flow.RuneFeeError())
	require.False(t, flow.AssetFeeError())
}

func TestSymDepositFlowConfirmSubmitsBothLegs(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))
	balances.set(domain.AssetRuneNative, domain.NewAmount(100000000000, 8))

	submitter := &mockSubmitter{
		events: []ports.SubmitEvent{
			{Type: ports.SubmitProgress, Step: 2},
			{Type: ports.SubmitLegSucceeded, Leg: LegAsset, TxID: "ASSETTX"},
			{Type: ports.SubmitProgress, Step: 4},
			{Type: ports.SubmitLegSucceeded, Leg: LegRune, TxID: "RUNETX"},
		},
	}
	flow := newTestSymDepositFlow(balances, newMockEstimator(), submitter)
	flow.Start(context.Background())

	flow.SelectInput(SideAsset)
	flow.ChangeAssetAmount(domain.NewAmount(1000000000, 8))

	require.NoError(t, flow.Confirm(context.Background(), "password"))
	require.NoError(t, flow.Close())

	sub := flow.Submission()
	require.True(t, sub.Overall().IsSuccess())
	require.Equal(t, SymDepositTotalSteps, sub.Step())

	assetTx, ok := sub.Leg(LegAsset).Value()
	require.True(t, ok)
	require.Equal(t, "ASSETTX", assetTx)
	runeTx, ok := sub.Leg(LegRune).Value()
	require.True(t, ok)
	require.Equal(t, "RUNETX", runeTx)

	require.Len(t, submitter.symParams, 1)
	params := submitter.symParams[0]
	require.True(t, params.Amounts.Asset.Equal(domain.NewAmount(1000000000, 8)))
	require.True(t, params.Amounts.Rune.Equal(domain.NewAmount(2000000000, 8)))
}

func TestSymDepositFlowConfirmRequiresMemos(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))
	balances.set(domain.AssetRuneNative, domain.NewAmount(100000000000, 8))

	flow := newTestSymDepositFlow(balances, newMockEstimator(), &mockSubmitter{})
	flow.SetMemos(option.None[domain.SymDepositMemo]())

	flow.SelectInput(SideAsset)
	flow.ChangeAssetAmount(domain.NewAmount(1000000000, 8))

	err := flow.Confirm(context.Background(), "password")
	require.ErrorIs(t, err, ErrParamsNotResolved)
}

func TestAsymDepositFlowMaxReservesGasFee(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetBNB, domain.NewAmount(10000000000, 8))

	estimator := newMockEstimator()
	estimator.asymFees = domain.DepositFees{
		Asset: domain.NewAmount(7500, domain.MaxPoolDecimal),
		Rune:  option.None[domain.Amount](),
	}

	flow := NewAsymDepositFlow(AsymDepositFlowConfig{
		Asset: domain.AssetWithDecimal{Asset: domain.AssetBNB, Decimal: 8},
		PoolAddress: option.Some(domain.PoolAddress{
			Chain:   domain.BNBChain,
			Address: "bnb1inbound",
			Router:  option.None[string](),
		}),
		Balances:  balances,
		Estimator: estimator,
		Approver:  &mockApprover{},
		Submitter: &mockSubmitter{},
		Secrets:   &mockSecrets{accepted: "password"},

		FeeDebounce:      testDebounce,
		FeeRatePerSecond: 1000,
	})
	flow.Start(context.Background())
	defer flow.Close()

	// before any quote the whole balance is spendable
	require.True(t, flow.MaxAmount().Equal(domain.NewAmount(10000000000, 8)))

	flow.ChangeAmount(domain.NewAmount(10000000000, 8))
	waitFor(t, func() bool {
		return flow.MaxAmount().Equal(domain.NewAmount(9999992500, 8))
	})

	// the held amount was re-clamped below the fee reserve
	require.True(t, flow.Amount().Equal(domain.NewAmount(9999992500, 8)))
}

func TestAsymDepositFlowTokenMaxIsFullBalance(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetRuneBNB, domain.NewAmount(10000000000, 8))

	estimator := newMockEstimator()
	estimator.asymFees = domain.DepositFees{
		Asset: domain.NewAmount(7500, domain.MaxPoolDecimal),
		Rune:  option.None[domain.Amount](),
	}

	flow := NewAsymDepositFlow(AsymDepositFlowConfig{
		Asset: domain.AssetWithDecimal{Asset: domain.AssetRuneBNB, Decimal: 8},
		PoolAddress: option.Some(domain.PoolAddress{
			Chain:   domain.BNBChain,
			Address: "bnb1inbound",
			Router:  option.None[string](),
		}),
		Balances:  balances,
		Estimator: estimator,
		Approver:  &mockApprover{},
		Submitter: &mockSubmitter{},
		Secrets:   &mockSecrets{accepted: "password"},

		FeeDebounce:      testDebounce,
		FeeRatePerSecond: 1000,
	})

	// fees are paid in BNB, the token balance stays fully depositable
	require.True(t, flow.MaxAmount().Equal(domain.NewAmount(10000000000, 8)))
}
