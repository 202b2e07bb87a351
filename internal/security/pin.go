package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes the parental PIN for storage.
// The PIN only gates a child's profile on a shared device.
func HashPIN(pin string) (string, error) {
	if pin == "" {
		return "", errors.New("pin required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hashed), nil
}

// CheckPIN reports whether pin matches the stored hash
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
