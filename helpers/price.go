package helpers

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonPriceChars   = regexp.MustCompile(`[^\d.,]`)
	trailingDecimal = regexp.MustCompile(`\.\d{1,2}\s*$`)
	nonDigit        = regexp.MustCompile(`\D`)
)

// NormalizePrice reduces a localized price text to a plain whole-unit integer
// string ("4.999.000,00" -> "4999000", "$ 6.225,0" -> "6225", "6225.0" -> "6225").
//
// The rule is deliberately a heuristic, not general currency parsing: keep only
// digits, dots and commas; if a comma is present, cut at the first comma
// (Argentine convention, comma = decimal separator); otherwise strip a trailing
// 1-2 digit dot-decimal suffix (US-style "6225.0" values); finally drop every
// remaining non-digit. Cents are always discarded. Returns "" when no digits
// survive. Note the comma branch also truncates thousands-comma inputs like
// "1,234.56"; that is accepted behavior.
func NormalizePrice(text string) string {
	keep := nonPriceChars.ReplaceAllString(text, "")
	if i := strings.Index(keep, ","); i >= 0 {
		keep = keep[:i]
	} else {
		keep = trailingDecimal.ReplaceAllString(keep, "")
	}
	return nonDigit.ReplaceAllString(keep, "")
}

// PlainFromFloat converts an API price value to the plain integer form,
// truncating any cents (6225.0 -> "6225").
func PlainFromFloat(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}

// FormatDisplay renders a plain integer price as the display form
// "$ 6.225,00": dot thousands separators and a literal ",00" suffix. Real
// cents are never recovered, so display cents are always zero.
func FormatDisplay(plain string) string {
	var sb strings.Builder
	sb.WriteString("$ ")
	n := len(plain)
	for i, r := range plain {
		if i > 0 && (n-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	sb.WriteString(",00")
	return sb.String()
}
