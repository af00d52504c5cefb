package application

import (
	"context"
	"errors"
	"sync"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/option"
)

type mockBalances struct {
	mtx      sync.Mutex
	balances map[string]domain.Amount
}

func newMockBalances() *mockBalances {
	return &mockBalances{balances: map[string]domain.Amount{}}
}

func (m *mockBalances) set(asset domain.Asset, amount domain.Amount) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.balances[asset.String()] = amount
}

func (m *mockBalances) Balance(asset domain.Asset) option.Option[domain.Amount] {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	bal, ok := m.balances[asset.String()]
	if !ok {
		return option.None[domain.Amount]()
	}
	return option.Some(bal)
}

type mockEstimator struct {
	mtx       sync.Mutex
	swapFees  domain.SwapFees
	symFees   domain.DepositFees
	asymFees  domain.DepositFees
	upgrade   domain.Amount
	err       error
	swapCalls int
}

func newMockEstimator() *mockEstimator {
	return &mockEstimator{
		swapFees: domain.ZeroSwapFees(),
		symFees:  domain.ZeroSymDepositFees(),
		asymFees: domain.ZeroAsymDepositFees(),
		upgrade:  domain.ZeroAmount(domain.MaxPoolDecimal),
	}
}

func (m *mockEstimator) setSwapFees(fees domain.SwapFees, err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.swapFees, m.err = fees, err
}

func (m *mockEstimator) swapCallCount() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.swapCalls
}

func (m *mockEstimator) SwapFees(_ context.Context, _ domain.SwapFeesParams) (domain.SwapFees, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.swapCalls++
	return m.swapFees, m.err
}

func (m *mockEstimator) SymDepositFees(_ context.Context, _ domain.SymDepositParams) (domain.DepositFees, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.symFees, m.err
}

func (m *mockEstimator) AsymDepositFees(_ context.Context, _ domain.AsymDepositParams) (domain.DepositFees, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.asymFees, m.err
}

func (m *mockEstimator) UpgradeFee(_ context.Context, _ domain.UpgradeParams) (domain.Amount, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.upgrade, m.err
}

func (m *mockEstimator) ApproveFee(_ context.Context, _ domain.ApproveParams) (domain.Amount, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return domain.ZeroAmount(domain.MaxPoolDecimal), m.err
}

type mockApprover struct {
	mtx            sync.Mutex
	allowance      bool
	allowanceErr   error
	approveTxID    string
	approveErr     error
	allowanceCalls int
	approveCalls   int
}

func (m *mockApprover) Allowance(_ context.Context, _ domain.ApproveParams) (bool, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.allowanceCalls++
	return m.allowance, m.allowanceErr
}

func (m *mockApprover) Approve(_ context.Context, _ domain.ApproveParams) (string, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.approveCalls++
	return m.approveTxID, m.approveErr
}

type mockSubmitter struct {
	mtx        sync.Mutex
	events     []ports.SubmitEvent
	err        error
	swapParams []domain.SwapParams
	symParams  []domain.SymDepositParams
}

func (m *mockSubmitter) stream() (<-chan ports.SubmitEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := make(chan ports.SubmitEvent, len(m.events))
	for _, ev := range m.events {
		events <- ev
	}
	close(events)
	return events, nil
}

func (m *mockSubmitter) SubmitSwap(_ context.Context, params domain.SwapParams) (<-chan ports.SubmitEvent, error) {
	m.mtx.Lock()
	m.swapParams = append(m.swapParams, params)
	m.mtx.Unlock()
	return m.stream()
}

func (m *mockSubmitter) SubmitAsymDeposit(_ context.Context, _ domain.AsymDepositParams) (<-chan ports.SubmitEvent, error) {
	return m.stream()
}

func (m *mockSubmitter) SubmitSymDeposit(_ context.Context, params domain.SymDepositParams) (<-chan ports.SubmitEvent, error) {
	m.mtx.Lock()
	m.symParams = append(m.symParams, params)
	m.mtx.Unlock()
	return m.stream()
}

func (m *mockSubmitter) SubmitUpgrade(_ context.Context, _ domain.UpgradeParams) (<-chan ports.SubmitEvent, error) {
	return m.stream()
}

type mockSecrets struct {
	accepted string
}

func (m *mockSecrets) Validate(_ context.Context, secret string) error {
	if secret != m.accepted {
		return errors.New("invalid password")
	}
	return nil
}

type mockPoolProvider struct {
	mtx   sync.Mutex
	pools map[string]domain.PoolData
	usd   domain.PoolData
	err   error
}

func (m *mockPoolProvider) PoolData(_ context.Context, asset domain.Asset) (domain.PoolData, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.err != nil {
		return domain.PoolData{}, m.err
	}
	return m.pools[asset.String()], nil
}

func (m *mockPoolProvider) USDPool(_ context.Context) (domain.PoolData, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.err != nil {
		return domain.PoolData{}, m.err
	}
	return m.usd, nil
}
