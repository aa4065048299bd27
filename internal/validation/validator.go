package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinMaxLength checks the character count of s against max; max <= 0 means unlimited
func (v *Validator) IsWithinMaxLength(s string, max int) bool {
	if max <= 0 {
		return true
	}
	return utf8.RuneCountInString(s) <= max
}

// ParseInteger parses a base-10 integer after trimming whitespace
func (v *Validator) ParseInteger(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsInRange checks that n lies in the inclusive range [min, max]
func (v *Validator) IsInRange(n, min, max int) bool {
	return n >= min && n <= max
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
