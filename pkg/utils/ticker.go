// Package utils provides small helpers shared by providers and handlers:
// ticker cleanup and lenient numeric coercion of upstream JSON values.
package utils

import (
	"net/url"
	"strings"
)

// NormalizeTicker trims, upper-cases and strips a leading "$" from a symbol.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (common when pasted from chat)
	return strings.TrimPrefix(ticker, "$")
}

// EscapeTicker normalizes a symbol and escapes it for use as a URL path
// segment.
func EscapeTicker(ticker string) string {
	return url.PathEscape(NormalizeTicker(ticker))
}
