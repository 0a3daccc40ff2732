package domain

import (
	"strings"

	"github.com/fiscalbr/classtrib/internal/classtrib/rates"
)

// Selection restricts which classification rows a report emits. Tokens are
// either "<ncm>-ALL" (every classification of that NCM) or
// "<ncm>-<classCode>" (exactly that pair). An empty selection includes
// everything; that is the default, not "filter to nothing".
type Selection struct {
	all   map[string]struct{}
	exact map[string]struct{}
}

// ParseSelection builds a Selection from raw query tokens. Malformed tokens
// are skipped. Class codes in exact tokens are normalized to the zero-padded
// display form so "1234-7" and "1234-000007" select the same row.
func ParseSelection(tokens []string) Selection {
	sel := Selection{
		all:   make(map[string]struct{}),
		exact: make(map[string]struct{}),
	}

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		idx := strings.LastIndex(token, "-")
		if idx <= 0 || idx == len(token)-1 {
			continue
		}

		ncm := token[:idx]
		suffix := token[idx+1:]
		if suffix == "ALL" {
			sel.all[ncm] = struct{}{}
			continue
		}
		sel.exact[ncm+"-"+padClassCode(suffix)] = struct{}{}
	}

	return sel
}

// Empty reports whether no filtering applies.
func (s Selection) Empty() bool {
	return len(s.all) == 0 && len(s.exact) == 0
}

// Includes reports whether the (NCM, classification) pair should be emitted.
// classCode is the zero-padded display form.
func (s Selection) Includes(ncmCode, classCode string) bool {
	if s.Empty() {
		return true
	}
	if _, ok := s.all[ncmCode]; ok {
		return true
	}
	_, ok := s.exact[ncmCode+"-"+classCode]
	return ok
}

func padClassCode(raw string) string {
	if len(raw) > 18 {
		return raw
	}
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
		n = n*10 + int64(r-'0')
	}
	return rates.FormatClassCode(n)
}
