package ingest

import (
	"math"
	"strings"
	"unicode"
)

// titleCase normalizes category text to canonical title case:
// "home & kitchen" -> "Home & Kitchen".
func titleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if unicode.IsLetter(r) {
				runes[j] = unicode.ToUpper(r)
				break
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// round2 rounds a monetary value to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// stripCurrency removes currency symbols, thousands separators and
// surrounding whitespace from a raw price value, leaving digits, sign and
// decimal point for numeric parsing.
func stripCurrency(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
