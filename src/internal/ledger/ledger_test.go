package ledger_test

import (
	"errors"
	"testing"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/ledger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/policy"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestDirectory(t *testing.T) *ledger.Directory {
	t.Helper()

	dir, err := ledger.NewDirectory(pincode.NewShiftCodec(), policy.New(false), []ledger.Seed{
		{CardNumber: "1234", Pin: "1234", Balance: dec("1000.00")},
		{CardNumber: "5678", Pin: "5678", Balance: dec("2000.00")},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return dir
}

func mustAccount(t *testing.T, dir *ledger.Directory, card string) *ledger.Account {
	t.Helper()

	account, err := dir.Lookup(card)
	if err != nil {
		t.Fatalf("lookup %s: %v", card, err)
	}
	return account
}

func TestAuthenticateSuccess(t *testing.T) {
	dir := newTestDirectory(t)

	account, err := dir.Authenticate("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if account.ID() != "1234" {
		t.Fatalf("expected account 1234, got %s", account.ID())
	}
}

func TestAuthenticateWrongPinAndUnknownCardFailIdentically(t *testing.T) {
	dir := newTestDirectory(t)

	_, wrongPinErr := dir.Authenticate("1234", "0000")
	_, unknownErr := dir.Authenticate("9999", "1234")

	if !errors.Is(wrongPinErr, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for wrong pin, got %v", wrongPinErr)
	}
	if !errors.Is(unknownErr, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for unknown card, got %v", unknownErr)
	}
	if wrongPinErr.Error() != unknownErr.Error() {
		t.Fatal("expected identical errors for wrong pin and unknown card")
	}
}

func TestWithdrawDebitsAmountPlusFee(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	receipt, err := account.Withdraw(dec("500"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !receipt.Fee.Equal(dec("10")) {
		t.Fatalf("expected fee 10, got %s", receipt.Fee)
	}
	if !receipt.NewBalance.Equal(dec("490.00")) {
		t.Fatalf("expected balance 490.00, got %s", receipt.NewBalance)
	}

	history := account.History()
	if len(history) != 1 {
		t.Fatalf("expected one transaction, got %d", len(history))
	}
	if history[0].Kind != domain.TransactionKindWithdrawal {
		t.Fatalf("expected withdrawal entry, got %s", history[0].Kind)
	}
	if !history[0].Amount.Equal(dec("500")) {
		t.Fatalf("expected recorded amount 500 excluding fee, got %s", history[0].Amount)
	}
}

func TestWithdrawRejectsNonPositiveAmount(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	for _, amount := range []string{"0", "-25"} {
		_, err := account.Withdraw(dec(amount))
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}
	if !account.Balance().Equal(dec("1000.00")) {
		t.Fatal("expected balance untouched after rejected withdrawals")
	}
	if len(account.History()) != 0 {
		t.Fatal("expected no history entries after rejected withdrawals")
	}
}

func TestWithdrawRejectsPolicyViolations(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	for _, amount := range []string{"1000.01", "10000.01"} {
		_, err := account.Withdraw(dec(amount))
		if !errors.Is(err, domain.ErrPolicyViolation) {
			t.Fatalf("expected ErrPolicyViolation for %s, got %v", amount, err)
		}
	}
	if !account.Balance().Equal(dec("1000.00")) {
		t.Fatal("expected balance untouched after rejected withdrawals")
	}
}

func TestWithdrawFullBalanceGoesNegativeInLiteralMode(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	receipt, err := account.Withdraw(dec("1000.00"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !receipt.NewBalance.Equal(dec("-10.00")) {
		t.Fatalf("expected post-fee balance -10.00, got %s", receipt.NewBalance)
	}
}

func TestStrictPolicyRejectsFullBalanceWithdrawal(t *testing.T) {
	dir, err := ledger.NewDirectory(pincode.NewShiftCodec(), policy.New(true), []ledger.Seed{
		{CardNumber: "1234", Pin: "1234", Balance: dec("1000.00")},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	account := mustAccount(t, dir, "1234")

	if _, err := account.Withdraw(dec("1000.00")); !errors.Is(err, domain.ErrPolicyViolation) {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}
	if !account.Balance().Equal(dec("1000.00")) {
		t.Fatal("expected balance untouched")
	}
}

func TestDepositCreditsAndRecords(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "5678")

	receipt, err := account.Deposit(dec("250.50"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !receipt.NewBalance.Equal(dec("2250.50")) {
		t.Fatalf("expected balance 2250.50, got %s", receipt.NewBalance)
	}

	history := account.History()
	if len(history) != 1 || history[0].Kind != domain.TransactionKindDeposit {
		t.Fatal("expected one deposit entry")
	}
}

func TestDepositRejectsOutOfRangeAmounts(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "5678")

	for _, amount := range []string{"99.99", "50000.01", "-10", "0"} {
		_, err := account.Deposit(dec(amount))
		if !errors.Is(err, domain.ErrPolicyViolation) {
			t.Fatalf("expected ErrPolicyViolation for %s, got %v", amount, err)
		}
	}
	if !account.Balance().Equal(dec("2000.00")) {
		t.Fatal("expected balance untouched after rejected deposits")
	}
}

func TestBalanceReconcilesWithHistory(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	if _, err := account.Deposit(dec("500")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := account.Withdraw(dec("200")); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := account.Withdraw(dec("1200")); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// 1000 + 500 - (200 + 10) - (1200 + 15)
	if !account.Balance().Equal(dec("75.00")) {
		t.Fatalf("expected balance 75.00, got %s", account.Balance())
	}
	if len(account.History()) != 3 {
		t.Fatalf("expected three transactions, got %d", len(account.History()))
	}
}

func TestHistoryReturnsDefensiveCopy(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	if _, err := account.Deposit(dec("300")); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	history := account.History()
	history[0].Amount = dec("999999")
	history[0].Kind = domain.TransactionKindWithdrawal

	fresh := account.History()
	if !fresh[0].Amount.Equal(dec("300")) || fresh[0].Kind != domain.TransactionKindDeposit {
		t.Fatal("expected internal history to be unaffected by caller mutation")
	}
}

func TestChangePinFlow(t *testing.T) {
	dir := newTestDirectory(t)
	account := mustAccount(t, dir, "1234")

	if err := account.ChangePin("0000", "4321"); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for wrong current pin, got %v", err)
	}
	if _, err := dir.Authenticate("1234", "1234"); err != nil {
		t.Fatal("expected original pin to remain valid after failed change")
	}

	if err := account.ChangePin("1234", "12a4"); !errors.Is(err, domain.ErrInvalidPinFormat) {
		t.Fatalf("expected ErrInvalidPinFormat, got %v", err)
	}
	if _, err := dir.Authenticate("1234", "1234"); err != nil {
		t.Fatal("expected original pin to remain valid after rejected format")
	}

	if err := account.ChangePin("1234", "4321"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := dir.Authenticate("1234", "4321"); err != nil {
		t.Fatal("expected new pin to authenticate")
	}
	if _, err := dir.Authenticate("1234", "1234"); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatal("expected old pin to be rejected after change")
	}
}

func TestNewDirectoryRejectsDuplicateSeeds(t *testing.T) {
	_, err := ledger.NewDirectory(pincode.NewShiftCodec(), policy.New(false), []ledger.Seed{
		{CardNumber: "1234", Pin: "1234", Balance: dec("100")},
		{CardNumber: "1234", Pin: "0000", Balance: dec("200")},
	})
	if err == nil {
		t.Fatal("expected duplicate seed error")
	}
}
