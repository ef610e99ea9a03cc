package vpax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Acronym maps a cardinality or cross-filter value to its one-character code:
// many -> M, one -> 1, single direction -> S, empty -> ?, otherwise the first
// character upper-cased.
func Acronym(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "":
		return "?"
	case "many":
		return "M"
	case "one":
		return "1"
	case "onedirection", "one direction", "single":
		return "S"
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(v))
	return string(unicode.ToUpper(r))
}

// CardinalityCode builds the compact relationship code, e.g. "M-1-S".
func CardinalityCode(from, to, crossFilter string) string {
	return Acronym(from) + "-" + Acronym(to) + "-" + Acronym(crossFilter)
}
