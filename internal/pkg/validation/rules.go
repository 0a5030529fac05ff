package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// PhonePattern accepts an optional leading plus followed by 7-15 digits,
	// spaces, dashes or parentheses
	PhonePattern = `^\+?[0-9\s\-()]{7,15}$`

	// SymbolPattern lists the characters that satisfy the password symbol rule
	SymbolPattern = `[@$!%*?&#^()_+\-=\[\]{};':"\\|,.<>\/~]`

	// Password min length
	PasswordMinLength = 8

	// Name and reason max lengths
	NameMaxLength   = 100
	ReasonMaxLength = 500
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone    *regexp.Regexp
	Symbol   *regexp.Regexp
	Digit    *regexp.Regexp
	Upper    *regexp.Regexp
	Lower    *regexp.Regexp
	NoDigits *regexp.Regexp
}{
	Phone:    regexp.MustCompile(PhonePattern),
	Symbol:   regexp.MustCompile(SymbolPattern),
	Digit:    regexp.MustCompile(`[0-9]`),
	Upper:    regexp.MustCompile(`[A-Z]`),
	Lower:    regexp.MustCompile(`[a-z]`),
	NoDigits: regexp.MustCompile(`^[^\d]*$`),
}
