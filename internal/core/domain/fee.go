package domain

import "github.com/asgardex/asgardex-core/pkg/option"

// SwapFees holds the network fees of both swap legs: the inbound transaction
// on the source chain and the outbound transaction paid by the pool, each in
// its chain's gas asset.
type SwapFees struct {
	InTx  Amount
	OutTx Amount
}

// ZeroSwapFees is the quote used before any estimate has been requested and
// for zero-amount submissions.
func ZeroSwapFees() SwapFees {
	return SwapFees{
		InTx:  ZeroAmount(MaxPoolDecimal),
		OutTx: ZeroAmount(MaxPoolDecimal),
	}
}

// DepositFees holds one fee (asymmetrical deposit) or two fees (symmetrical
// deposit): Asset is the fee on the asset chain, Rune the THORChain fee,
// none for asym deposits.
type DepositFees struct {
	Asset Amount
	Rune  option.Option[Amount]
}

// ZeroSymDepositFees is the zero quote for symmetrical deposits.
func ZeroSymDepositFees() DepositFees {
	return DepositFees{
		Asset: ZeroAmount(MaxPoolDecimal),
		Rune:  option.Some(ZeroAmount(MaxPoolDecimal)),
	}
}

// ZeroAsymDepositFees is the zero quote for asymmetrical deposits.
func ZeroAsymDepositFees() DepositFees {
	return DepositFees{
		Asset: ZeroAmount(MaxPoolDecimal),
		Rune:  option.None[Amount](),
	}
}
