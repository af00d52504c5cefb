package application

import (
	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/pkg/option"
)

// IsFeeInsufficient reports whether the wallet cannot cover a required chain
// fee with its gas-asset balance. Insufficiency is asserted only when both
// fee and balance are concretely known and a non-zero amount is about to be
// submitted; pending or absent quotes never block the user.
func IsFeeInsufficient(oFee, oBalance option.Option[domain.Amount], zeroAmount bool) bool {
	if zeroAmount {
		return false
	}
	fee, ok := oFee.Value()
	if !ok {
		return false
	}
	balance, ok := oBalance.Value()
	if !ok {
		return false
	}
	return balance.LT(fee)
}
