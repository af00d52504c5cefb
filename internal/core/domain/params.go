package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/asgardex/asgardex-core/pkg/option"
)

// PoolAddress points at a pool's inbound address on one chain, with an
// optional router contract for EVM chains.
type PoolAddress struct {
	Chain   Chain
	Address string
	Router  option.Option[string]
}

// SwapParams bundles everything needed to send the inbound swap transaction.
// Amounts are expressed in the source chain's native precision.
type SwapParams struct {
	PoolAddress PoolAddress
	Asset       Asset
	Amount      Amount
	Memo        string
}

// SwapOutTx describes the outbound leg a pool pays out after a swap; only
// its asset and memo matter for fee estimation.
type SwapOutTx struct {
	Asset Asset
	Memo  string
}

// SwapFeesParams bundles both swap legs for fee estimation.
type SwapFeesParams struct {
	InTx  SwapParams
	OutTx SwapOutTx
}

// NewSwapParams builds swap params only when pool address and target wallet
// address are simultaneously available; otherwise it yields none and no
// submission is possible. The amount is converted back to the source asset's
// native precision before leaving the 1e8 computation basis.
func NewSwapParams(
	oPoolAddress option.Option[PoolAddress],
	source, target Asset,
	amountMax1e8 Amount,
	sourceDecimal int,
	oTargetAddress option.Option[string],
) option.Option[SwapParams] {
	poolAddress, ok := oPoolAddress.Value()
	if !ok {
		return option.None[SwapParams]()
	}
	targetAddress, ok := oTargetAddress.Value()
	if !ok {
		return option.None[SwapParams]()
	}
	return option.Some(SwapParams{
		PoolAddress: poolAddress,
		Asset:       source,
		Amount:      amountMax1e8.Rescale(sourceDecimal),
		Memo:        SwapMemo(target, targetAddress),
	})
}

// AsymDepositParams bundles a single-asset deposit.
type AsymDepositParams struct {
	PoolAddress PoolAddress
	Asset       Asset
	Amount      Amount
	Memo        string
}

// SymDepositAmounts are the two legs of a symmetrical deposit: the RUNE side
// at 1e8 and the asset side at its chain-native precision.
type SymDepositAmounts struct {
	Rune  Amount
	Asset Amount
}

// SymDepositMemo holds one memo per leg.
type SymDepositMemo struct {
	Rune  string
	Asset string
}

// SymDepositParams bundles a symmetrical deposit of both legs.
type SymDepositParams struct {
	PoolAddress PoolAddress
	Asset       Asset
	Amounts     SymDepositAmounts
	Memos       SymDepositMemo
}

// NewSymDepositParams builds deposit params only when pool address and memos
// are simultaneously available. The asset amount is converted back to its
// native precision.
func NewSymDepositParams(
	oPoolAddress option.Option[PoolAddress],
	oMemos option.Option[SymDepositMemo],
	asset Asset,
	runeAmount, assetAmountMax1e8 Amount,
	assetDecimal int,
) option.Option[SymDepositParams] {
	poolAddress, ok := oPoolAddress.Value()
	if !ok {
		return option.None[SymDepositParams]()
	}
	memos, ok := oMemos.Value()
	if !ok {
		return option.None[SymDepositParams]()
	}
	return option.Some(SymDepositParams{
		PoolAddress: poolAddress,
		Asset:       asset,
		Amounts: SymDepositAmounts{
			Rune:  runeAmount,
			Asset: assetAmountMax1e8.Rescale(assetDecimal),
		},
		Memos: memos,
	})
}

// UpgradeParams bundles an upgrade of a legacy token to its native form.
type UpgradeParams struct {
	PoolAddress PoolAddress
	Asset       Asset
	Amount      Amount
	Memo        string
}

// ApproveParams identifies the (spender, token) pair of an ERC-20 approval.
type ApproveParams struct {
	Spender common.Address
	Token   common.Address
}

// SwapMemo encodes the swap intent for the target asset and destination
// address.
func SwapMemo(target Asset, destination string) string {
	return fmt.Sprintf("SWAP:%s:%s", target, destination)
}

// DepositMemo encodes a deposit intent. For cross-chain sym deposit legs a
// counterpart address is appended.
func DepositMemo(asset Asset, crossAddress string) string {
	if crossAddress == "" {
		return fmt.Sprintf("STAKE:%s", asset)
	}
	return fmt.Sprintf("STAKE:%s:%s", asset, crossAddress)
}

// UpgradeMemo encodes the switch of legacy RUNE to native RUNE towards the
// given THORChain address.
func UpgradeMemo(destination string) string {
	return fmt.Sprintf("SWITCH:%s", destination)
}
