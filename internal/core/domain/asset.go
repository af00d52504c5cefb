package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/asgardex/asgardex-core/pkg/option"
)

// Chain identifies a supported blockchain.
type Chain string

const (
	THORChain Chain = "THOR"
	BNBChain  Chain = "BNB"
	BTCChain  Chain = "BTC"
	ETHChain  Chain = "ETH"
	LTCChain  Chain = "LTC"
	BCHChain  Chain = "BCH"
)

// Asset identifies a tradable unit. Symbol carries the contract identifier
// for tokens (e.g. "USDT-0xdac17f…"), Ticker the plain ticker. Equality is
// structural.
type Asset struct {
	Chain  Chain
	Symbol string
	Ticker string
}

var (
	AssetRuneNative = Asset{Chain: THORChain, Symbol: "RUNE", Ticker: "RUNE"}
	// AssetRuneBNB is the legacy BEP-2 RUNE token upgradable to native RUNE
	AssetRuneBNB = Asset{Chain: BNBChain, Symbol: "RUNE-B1A", Ticker: "RUNE"}
	AssetBNB     = Asset{Chain: BNBChain, Symbol: "BNB", Ticker: "BNB"}
	AssetBTC     = Asset{Chain: BTCChain, Symbol: "BTC", Ticker: "BTC"}
	AssetETH     = Asset{Chain: ETHChain, Symbol: "ETH", Ticker: "ETH"}
	AssetLTC     = Asset{Chain: LTCChain, Symbol: "LTC", Ticker: "LTC"}
	AssetBCH     = Asset{Chain: BCHChain, Symbol: "BCH", Ticker: "BCH"}
)

// String returns the canonical "CHAIN.SYMBOL" notation used in memos and as
// pool map key.
func (a Asset) String() string {
	return fmt.Sprintf("%s.%s", a.Chain, a.Symbol)
}

// NewAsset parses the "CHAIN.SYMBOL" notation.
func NewAsset(s string) (Asset, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Asset{}, fmt.Errorf("%w: %s", ErrInvalidAsset, s)
	}
	symbol := parts[1]
	ticker := symbol
	if idx := strings.Index(symbol, "-"); idx > 0 {
		ticker = symbol[:idx]
	}
	return Asset{Chain: Chain(parts[0]), Symbol: symbol, Ticker: ticker}, nil
}

// GasAsset returns the chain's native fee-paying asset.
func (c Chain) GasAsset() Asset {
	switch c {
	case THORChain:
		return AssetRuneNative
	case BNBChain:
		return AssetBNB
	case BTCChain:
		return AssetBTC
	case ETHChain:
		return AssetETH
	case LTCChain:
		return AssetLTC
	case BCHChain:
		return AssetBCH
	default:
		return Asset{Chain: c, Symbol: string(c), Ticker: string(c)}
	}
}

// IsEVM reports whether the chain family requires token approvals before a
// contract can spend tokens. Unknown chain families are treated as non-EVM,
// hence "no approval needed".
func (c Chain) IsEVM() bool {
	return c == ETHChain
}

// IsGasAsset reports whether the asset is its chain's native gas asset.
func (a Asset) IsGasAsset() bool {
	return a == a.Chain.GasAsset()
}

// TokenAddress returns the contract address encoded in a token symbol, none
// for native assets or symbols without a valid hex address.
func (a Asset) TokenAddress() option.Option[common.Address] {
	idx := strings.Index(a.Symbol, "-")
	if idx < 0 {
		return option.None[common.Address]()
	}
	hexAddr := a.Symbol[idx+1:]
	if !common.IsHexAddress(hexAddr) {
		return option.None[common.Address]()
	}
	return option.Some(common.HexToAddress(hexAddr))
}

// AssetWithDecimal pairs an asset with its chain-native decimal precision,
// which may be above or below the 1e8 pool basis.
type AssetWithDecimal struct {
	Asset   Asset
	Decimal int
}
