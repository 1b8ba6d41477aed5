// Package sanitize renders credentials safe for logs and diagnostics.
package sanitize

import "strings"

// Mask keeps the first and last rune of s and replaces the rest with '*'.
// Values of two runes or fewer are fully masked.
func Mask(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}

// Token renders a capability token as a short prefix. Tokens of eight runes
// or fewer are fully masked so the prefix never dominates the secret.
func Token(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + "..."
}
