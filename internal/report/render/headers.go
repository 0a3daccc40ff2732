package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column matching for spreadsheet templates. Template workbooks come from
// users and the header spelling drifts (case, accents, abbreviations), so
// each logical column is resolved by an ordered list of predicates over the
// normalized header text instead of a fixed position. The first matching
// header wins; unresolved columns are skipped on write.

type columnKey string

const (
	colNcm       columnKey = "ncm"
	colDesc      columnKey = "descricao"
	colCst       columnKey = "cst"
	colClassTrib columnKey = "classtrib"
	colIbs       columnKey = "ibs"
	colCbs       columnKey = "cbs"
)

type columnMatcher struct {
	key   columnKey
	match func(norm string) bool
}

// Matchers are evaluated top to bottom per header cell; order matters
// because "classificacao tributaria" also contains "tributaria" fragments
// the rate columns would otherwise claim.
var columnMatchers = []columnMatcher{
	{colClassTrib, func(s string) bool {
		return strings.Contains(s, "CLAS") && strings.Contains(s, "TRIB")
	}},
	{colIbs, func(s string) bool { return strings.Contains(s, "IBS") }},
	{colCbs, func(s string) bool { return strings.Contains(s, "CBS") }},
	{colCst, func(s string) bool { return strings.Contains(s, "CST") }},
	{colNcm, func(s string) bool {
		return strings.Contains(s, "NCM") || strings.Contains(s, "CODIGO")
	}},
	{colDesc, func(s string) bool { return strings.Contains(s, "DESCRI") }},
}

// resolveColumns maps logical columns to 1-based spreadsheet column indexes
// for a header row.
func resolveColumns(headerCells []string) map[columnKey]int {
	out := make(map[columnKey]int, len(columnMatchers))
	for i, cell := range headerCells {
		normalized := normalizeHeader(cell)
		if normalized == "" {
			continue
		}
		for _, matcher := range columnMatchers {
			if _, taken := out[matcher.key]; taken {
				continue
			}
			if matcher.match(normalized) {
				out[matcher.key] = i + 1
				break
			}
		}
	}
	return out
}

// isHeaderRow reports whether a row looks like the template's column header:
// it must name both a code-like and a description-like column.
func isHeaderRow(cells []string) bool {
	resolved := resolveColumns(cells)
	_, hasCode := resolved[colNcm]
	_, hasDesc := resolved[colDesc]
	return hasCode && hasDesc
}

var diacriticsStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// normalizeHeader upper-cases and strips diacritics so "Descrição" matches
// "DESCRICAO".
func normalizeHeader(s string) string {
	stripped, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
