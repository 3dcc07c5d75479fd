package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// CurrencyRgx matches an ISO 4217 alphabetic code
var CurrencyRgx = regexp.MustCompile(`^[A-Z]{3}$`)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Matches returns true if a string value matches a specific regexp pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// In returns true if a value is in a list of values.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// IsCurrencyCode returns true for an upper-case three letter currency code
func IsCurrencyCode(value string) bool {
	return Matches(value, CurrencyRgx)
}

// SameName reports whether two names are equal ignoring case and surrounding space
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
