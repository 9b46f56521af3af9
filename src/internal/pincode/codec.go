package pincode

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Codec encodes PINs for storage and verifies submitted PINs against
// the stored form.
type Codec interface {
	Encode(pin string) (string, error)
	Verify(pin string, stored string) bool
}

// ShiftCodec is the historical placeholder transform: each character's
// code point is incremented by one. It is obfuscation, not security,
// and is kept only for behavioral compatibility with existing stored
// PINs. No length or charset validation happens here.
type ShiftCodec struct{}

func NewShiftCodec() ShiftCodec {
	return ShiftCodec{}
}

func (ShiftCodec) Encode(pin string) (string, error) {
	out := make([]rune, 0, len(pin))
	for _, c := range pin {
		out = append(out, c+1)
	}
	return string(out), nil
}

func (c ShiftCodec) Verify(pin string, stored string) bool {
	encoded, _ := c.Encode(pin)
	return encoded == stored
}

// BcryptCodec is the salted one-way replacement for ShiftCodec,
// selectable by configuration.
type BcryptCodec struct{}

func NewBcryptCodec() BcryptCodec {
	return BcryptCodec{}
}

func (BcryptCodec) Encode(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("encode pin: %w", err)
	}
	return string(hashed), nil
}

func (BcryptCodec) Verify(pin string, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin)) == nil
}

// StrengthScore rates a cleartext PIN: 10 points for being exactly
// four characters long, 5 more if no character repeats.
func StrengthScore(pin string) int {
	score := 0
	if len(pin) == 4 {
		score += 10
	}
	if hasUniqueChars(pin) {
		score += 5
	}
	return score
}

func hasUniqueChars(pin string) bool {
	seen := make(map[rune]struct{}, len(pin))
	for _, c := range pin {
		seen[c] = struct{}{}
	}
	return len(seen) == len([]rune(pin))
}

// IsFourDigitPin reports whether pin is exactly four decimal digits,
// the format required for newly chosen PINs.
func IsFourDigitPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}

	for _, ch := range pin {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	return true
}
