// Package policy holds the pure validation and fee rules applied to
// withdrawals and deposits before any ledger mutation.
package policy

import "github.com/shopspring/decimal"

var (
	MaxWithdrawal = decimal.NewFromInt(10000)
	MinDeposit    = decimal.NewFromInt(100)
	MaxDeposit    = decimal.NewFromInt(50000)

	feeTierSmall  = decimal.NewFromInt(1000)
	feeTierMedium = decimal.NewFromInt(5000)

	feeSmall  = decimal.NewFromInt(10)
	feeMedium = decimal.NewFromInt(15)
	feeLarge  = decimal.NewFromInt(20)
)

type Policy struct {
	strictFeeCheck bool
}

// New returns a Policy. With strictFeeCheck enabled, withdrawal
// validation requires the balance to cover the amount plus its fee;
// disabled, it reproduces the historical check that compares the
// amount alone against the balance and can leave a negative post-fee
// balance.
func New(strictFeeCheck bool) *Policy {
	return &Policy{strictFeeCheck: strictFeeCheck}
}

func (p *Policy) ValidateWithdrawal(balance, amount decimal.Decimal) bool {
	if amount.LessThanOrEqual(decimal.Zero) {
		return false
	}
	if amount.GreaterThan(MaxWithdrawal) {
		return false
	}
	if p.strictFeeCheck {
		return amount.Add(p.TransactionFee(amount)).LessThanOrEqual(balance)
	}
	return amount.LessThanOrEqual(balance)
}

func (p *Policy) ValidateDeposit(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(MinDeposit) && amount.LessThanOrEqual(MaxDeposit)
}

// TransactionFee returns the flat fee for a withdrawal of amount.
func (p *Policy) TransactionFee(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(feeTierSmall) {
		return feeSmall
	}
	if amount.LessThanOrEqual(feeTierMedium) {
		return feeMedium
	}
	return feeLarge
}
