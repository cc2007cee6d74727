package helpers

import (
	"regexp"
	"strings"
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	allowedChars = regexp.MustCompile(`[^A-Za-z0-9 ÁÉÍÓÚÜÑáéíóúüñ\-_/\.]`)
)

// NormalizeSpaces collapses runs of whitespace into single spaces and trims
// the result.
func NormalizeSpaces(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// MatchVariants generates up to three lexical variants of a search term: the
// term itself, a version with characters outside the allowed class (letters
// incl. Spanish diacritics, digits, space, hyphen, underscore, slash, period)
// replaced by spaces, and a version with slashes and quotes replaced by
// spaces. Duplicates are removed case-insensitively, order preserved.
func MatchVariants(term string) []string {
	base := NormalizeSpaces(term)
	variants := []string{base}

	v2 := NormalizeSpaces(allowedChars.ReplaceAllString(base, " "))
	if v2 != "" && !containsFold(variants, v2) {
		variants = append(variants, v2)
	}

	r := strings.NewReplacer("/", " ", `"`, " ", "'", " ")
	v3 := NormalizeSpaces(r.Replace(base))
	if !containsFold(variants, v3) {
		variants = append(variants, v3)
	}

	return variants
}

// TextMatchesAnyVariant reports whether every whitespace-split token of some
// variant occurs as a substring of the lowercased text. This is an
// AND-of-tokens substring test, not a word-boundary match; the looseness (and
// its false positives) is relied upon by the card and brochure matchers.
func TextMatchesAnyVariant(text string, variants []string) bool {
	lt := strings.ToLower(NormalizeSpaces(text))
	for _, v := range variants {
		tokens := strings.Fields(strings.ToLower(NormalizeSpaces(v)))
		if len(tokens) == 0 {
			continue
		}
		all := true
		for _, tok := range tokens {
			if !strings.Contains(lt, tok) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
