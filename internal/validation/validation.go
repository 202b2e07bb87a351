// Package validation checks learner input before it reaches the services.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds hero names in characters
const MaxNameLength = 24

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeName trims surrounding whitespace and collapses inner runs of spaces
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateName checks if a hero name is valid
func ValidateName(name string) error {
	name = NormalizeName(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)}
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '-' && r != '_' {
			return ValidationError{Field: "name", Message: "name may only use letters, numbers, spaces, - and _"}
		}
	}
	return nil
}

// ValidatePIN checks the parental PIN is exactly four digits
func ValidatePIN(pin string) error {
	if pin == "" {
		return ValidationError{Field: "pin", Message: "pin is required"}
	}
	if len(pin) != 4 {
		return ValidationError{Field: "pin", Message: "pin must be 4 digits"}
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ValidationError{Field: "pin", Message: "pin must be 4 digits"}
		}
	}
	return nil
}
