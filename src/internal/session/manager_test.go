package session_test

import (
	"errors"
	"testing"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/ledger"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/policy"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/session"
	"github.com/shopspring/decimal"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()

	dir, err := ledger.NewDirectory(pincode.NewShiftCodec(), policy.New(false), []ledger.Seed{
		{CardNumber: "1234", Pin: "1234", Balance: decimal.NewFromInt(1000)},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return session.NewManager(dir)
}

func TestLoginBindsSessionToAccount(t *testing.T) {
	m := newManager(t)

	s, err := m.Login("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if s.ID() == "" {
		t.Fatal("expected non-empty session id")
	}

	account, err := s.Account()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if account.ID() != "1234" {
		t.Fatalf("expected account 1234, got %s", account.ID())
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	m := newManager(t)

	if _, err := m.Login("1234", "0000"); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for wrong pin, got %v", err)
	}
	if _, err := m.Login("9999", "9999"); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for unknown card, got %v", err)
	}
}

func TestGetUnknownSessionFailsClosed(t *testing.T) {
	m := newManager(t)

	if _, err := m.Get("no-such-session"); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestLogoutClosesSession(t *testing.T) {
	m := newManager(t)

	s, err := m.Login("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	m.Logout(s.ID())

	if _, err := m.Get(s.ID()); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed after logout, got %v", err)
	}
	if _, err := s.Account(); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed from held handle, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := newManager(t)

	s, err := m.Login("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	m.Logout(s.ID())
	m.Logout(s.ID())
	m.Logout("never-existed")
}

func TestTwoSessionsOnSameAccountShareState(t *testing.T) {
	m := newManager(t)

	first, err := m.Login("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	second, err := m.Login("1234", "1234")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if first.ID() == second.ID() {
		t.Fatal("expected distinct session ids")
	}

	account, err := first.Account()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := account.Deposit(decimal.NewFromInt(500)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	other, err := second.Account()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !other.Balance().Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected shared balance 1500, got %s", other.Balance())
	}
}
