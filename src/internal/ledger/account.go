// Package ledger holds the mutable account state: the balance, the
// encoded PIN, and the append-only transaction history. All mutation
// goes through validate-then-apply paths so a rejected operation never
// leaves partial state behind.
package ledger

import (
	"sync"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/policy"
	"github.com/shopspring/decimal"
)

// Account is one card's ledger. Balance and history are updated inside
// a single critical section, so readers never observe one without the
// other.
type Account struct {
	mu      sync.RWMutex
	id      string
	pinHash string
	balance decimal.Decimal
	history []domain.Transaction

	codec  pincode.Codec
	policy *policy.Policy
}

func (a *Account) ID() string {
	return a.id
}

// Withdraw debits amount plus the policy fee and records a withdrawal
// transaction for the gross amount. The policy decides whether the fee
// must be covered by the balance; in the default literal mode it is
// not, and the post-fee balance can go negative.
func (a *Account) Withdraw(amount decimal.Decimal) (domain.WithdrawalReceipt, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.WithdrawalReceipt{}, domain.ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.policy.ValidateWithdrawal(a.balance, amount) {
		return domain.WithdrawalReceipt{}, domain.ErrPolicyViolation
	}

	fee := a.policy.TransactionFee(amount)
	a.balance = a.balance.Sub(amount).Sub(fee)
	a.history = append(a.history, domain.Transaction{
		Kind:      domain.TransactionKindWithdrawal,
		Amount:    amount,
		Timestamp: time.Now(),
	})

	return domain.WithdrawalReceipt{
		Amount:     amount,
		Fee:        fee,
		NewBalance: a.balance,
	}, nil
}

// Deposit credits amount and records a deposit transaction.
func (a *Account) Deposit(amount decimal.Decimal) (domain.DepositReceipt, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.policy.ValidateDeposit(amount) {
		return domain.DepositReceipt{}, domain.ErrPolicyViolation
	}

	a.balance = a.balance.Add(amount)
	a.history = append(a.history, domain.Transaction{
		Kind:      domain.TransactionKindDeposit,
		Amount:    amount,
		Timestamp: time.Now(),
	})

	return domain.DepositReceipt{
		Amount:     amount,
		NewBalance: a.balance,
	}, nil
}

// ChangePin replaces the stored PIN after verifying the current one.
// New PINs must be exactly four decimal digits.
func (a *Account) ChangePin(currentPin, newPin string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.codec.Verify(currentPin, a.pinHash) {
		return domain.ErrAuthFailed
	}
	if !pincode.IsFourDigitPin(newPin) {
		return domain.ErrInvalidPinFormat
	}

	encoded, err := a.codec.Encode(newPin)
	if err != nil {
		return err
	}
	a.pinHash = encoded

	return nil
}

// Balance returns the current balance without side effects.
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// History returns a copy of the transaction log in insertion order.
// Mutating the returned slice does not touch the account.
func (a *Account) History() []domain.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.Transaction, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Account) verifyPin(pin string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.codec.Verify(pin, a.pinHash)
}
