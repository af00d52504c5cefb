package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/option"
)

func newTestUpgradeFlow(
	balances *mockBalances,
	estimator *mockEstimator,
	submitter *mockSubmitter,
) *UpgradeFlow {
	return NewUpgradeFlow(UpgradeFlowConfig{
		Asset:       domain.AssetWithDecimal{Asset: domain.AssetRuneBNB, Decimal: 8},
		RuneAddress: option.Some("thor1native"),
		PoolAddress: option.Some(domain.PoolAddress{
			Chain:   domain.BNBChain,
			Address: "bnb1inbound",
			Router:  option.None[string](),
		}),
		Balances:  balances,
		Estimator: estimator,
		Submitter: submitter,
		Secrets:   &mockSecrets{accepted: "password"},

		FeeDebounce:      testDebounce,
		FeeRatePerSecond: 1000,
	})
}

func TestUpgradeFlowMaxIsTokenBalance(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetRuneBNB, domain.NewAmount(5000000000, 8))
	flow := newTestUpgradeFlow(balances, newMockEstimator(), &mockSubmitter{})

	require.True(t, flow.MaxAmount().Equal(domain.NewAmount(5000000000, 8)))

	flow.ChangeAmount(domain.NewAmount(9900000000, 8))
	require.True(t, flow.Amount().Equal(domain.NewAmount(5000000000, 8)))
}

func TestUpgradeFlowFeeError(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetRuneBNB, domain.NewAmount(5000000000, 8))
	// BNB gas balance below the fee
	balances.set(domain.AssetBNB, domain.NewAmount(100, 8))

	estimator := newMockEstimator()
	estimator.upgrade = domain.NewAmount(7500, domain.MaxPoolDecimal)

	flow := newTestUpgradeFlow(balances, estimator, &mockSubmitter{})
	flow.Start(context.Background())
	defer flow.Close()

	flow.ChangeAmount(domain.NewAmount(1000000000, 8))
	waitFor(t, func() bool {
		fee, ok := flow.Fee().Value()
		return ok && !fee.IsZero()
	})
	require.True(t, flow.FeeError())
}

func TestUpgradeFlowConfirm(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetRuneBNB, domain.NewAmount(5000000000, 8))

	submitter := &mockSubmitter{
		events: []ports.SubmitEvent{
			{Type: ports.SubmitProgress, Step: 3},
			{Type: ports.SubmitLegSucceeded, Leg: 0, TxID: "SWITCHTX"},
		},
	}
	flow := newTestUpgradeFlow(balances, newMockEstimator(), submitter)
	flow.Start(context.Background())

	flow.ChangeAmount(domain.NewAmount(1000000000, 8))

	params, ok := flow.UpgradeParams().Value()
	require.True(t, ok)
	require.Equal(t, "SWITCH:thor1native", params.Memo)
	require.Equal(t, domain.AssetRuneBNB, params.Asset)

	require.NoError(t, flow.Confirm(context.Background(), "password"))
	require.NoError(t, flow.Close())

	sub := flow.Submission()
	require.True(t, sub.Overall().IsSuccess())
	txID, txOK := sub.Leg(0).Value()
	require.True(t, txOK)
	require.Equal(t, "SWITCHTX", txID)
}

func TestUpgradeFlowConfirmRequiresRuneAddress(t *testing.T) {
	t.Parallel()

	balances := newMockBalances()
	balances.set(domain.AssetRuneBNB, domain.NewAmount(5000000000, 8))

	flow := newTestUpgradeFlow(balances, newMockEstimator(), &mockSubmitter{})
	flow.SetRuneAddress(option.None[string]())
	flow.ChangeAmount(domain.NewAmount(1000000000, 8))

	err := flow.Confirm(context.Background(), "password")
	require.ErrorIs(t, err, ErrParamsNotResolved)
}
