package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPIN is returned for PINs that are not 4 to 8 digits.
var ErrInvalidPIN = errors.New("pin must be 4 to 8 digits")

// ValidPIN reports whether pin is 4 to 8 ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// HashPIN returns the bcrypt hash stored in staff_pins.pin_hash.
func HashPIN(pin string) (string, error) {
	if !ValidPIN(pin) {
		return "", ErrInvalidPIN
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPIN reports whether pin matches hash.
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
