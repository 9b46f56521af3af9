package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindWithdrawal TransactionKind = "WITHDRAWAL"
	TransactionKindDeposit    TransactionKind = "DEPOSIT"
)

// Transaction is one entry in an account's append-only history. Amount
// is the gross amount requested, excluding any fee.
type Transaction struct {
	Kind      TransactionKind
	Amount    decimal.Decimal
	Timestamp time.Time
}

// WithdrawalReceipt reports the outcome of a successful withdrawal.
type WithdrawalReceipt struct {
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	NewBalance decimal.Decimal
}

// DepositReceipt reports the outcome of a successful deposit.
type DepositReceipt struct {
	Amount     decimal.Decimal
	NewBalance decimal.Decimal
}
