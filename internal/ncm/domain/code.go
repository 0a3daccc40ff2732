package domain

import "strings"

// NormalizeCode strips formatting (dots, spaces) from a raw NCM code,
// keeping digits only. "0101.21.00" and "01012100" normalize to the same
// value.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCode reports whether a normalized code looks like an NCM code.
// Full codes have 8 digits; chapter (2) and position (4) prefixes are
// accepted for search.
func ValidCode(code string) bool {
	switch len(code) {
	case 2, 4, 6, 8:
		return true
	default:
		return false
	}
}
