package ledger

import (
	"fmt"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/domain"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/pincode"
	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/policy"
	"github.com/shopspring/decimal"
)

// Seed describes one account created at startup. The initial PIN is
// encoded before it is stored.
type Seed struct {
	CardNumber string
	Pin        string
	Balance    decimal.Decimal
}

// Directory owns every Account, keyed by card number. It is built once
// at startup and injected wherever accounts are needed; it is never
// rebuilt or reset afterwards.
type Directory struct {
	accounts map[string]*Account
	codec    pincode.Codec
	policy   *policy.Policy
}

func NewDirectory(codec pincode.Codec, pol *policy.Policy, seeds []Seed) (*Directory, error) {
	d := &Directory{
		accounts: make(map[string]*Account, len(seeds)),
		codec:    codec,
		policy:   pol,
	}

	for _, seed := range seeds {
		if _, exists := d.accounts[seed.CardNumber]; exists {
			return nil, fmt.Errorf("duplicate seed card number %s", seed.CardNumber)
		}
		encoded, err := codec.Encode(seed.Pin)
		if err != nil {
			return nil, fmt.Errorf("encode seed pin for %s: %w", seed.CardNumber, err)
		}
		d.accounts[seed.CardNumber] = &Account{
			id:      seed.CardNumber,
			pinHash: encoded,
			balance: seed.Balance,
			codec:   codec,
			policy:  pol,
		}
	}

	return d, nil
}

// Authenticate returns the account for cardNumber when pin matches.
// Unknown card numbers and wrong PINs fail identically so callers
// cannot enumerate accounts.
func (d *Directory) Authenticate(cardNumber, pin string) (*Account, error) {
	account, ok := d.accounts[cardNumber]
	if !ok {
		return nil, domain.ErrAuthFailed
	}
	if !account.verifyPin(pin) {
		return nil, domain.ErrAuthFailed
	}
	return account, nil
}

// Lookup returns the account for cardNumber.
func (d *Directory) Lookup(cardNumber string) (*Account, error) {
	account, ok := d.accounts[cardNumber]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return account, nil
}

// Size returns the number of accounts in the directory.
func (d *Directory) Size() int {
	return len(d.accounts)
}
