// Package rates computes the display IBS/CBS rates for a ClassTrib row.
//
// Two policies exist on purpose: the report renderers use fixed two-decimal
// formatting and a six-code exemption set, while the interactive dashboard
// additionally exempts CST 515 and trims trailing zeros from a four-decimal
// computation. The divergence comes from the product requirements for each
// surface; do not merge the policies.
package rates

import (
	"math"
	"strconv"
	"strings"
)

// Result is the display-ready outcome for one classification row.
type Result struct {
	IBS    string
	CBS    string
	Exempt bool
}

// Policy holds the exemption set, base rates and formatting rules of one
// presentation surface.
type Policy struct {
	exempt    map[string]struct{}
	ibsBase   float64
	cbsBase   float64
	trimZeros bool
}

// NewPolicy builds a policy from an exemption CST list and base rates.
// trimZeros selects the dashboard formatting (4 decimals, trailing zeros
// removed) over the report formatting (always 2 decimals).
func NewPolicy(exemptCSTs []string, ibsBase, cbsBase float64, trimZeros bool) Policy {
	exempt := make(map[string]struct{}, len(exemptCSTs))
	for _, cst := range exemptCSTs {
		cst = strings.TrimSpace(cst)
		if cst == "" {
			continue
		}
		exempt[cst] = struct{}{}
	}
	return Policy{
		exempt:    exempt,
		ibsBase:   ibsBase,
		cbsBase:   cbsBase,
		trimZeros: trimZeros,
	}
}

// DefaultReportPolicy matches the report renderers.
func DefaultReportPolicy() Policy {
	return NewPolicy([]string{"400", "410", "510", "550", "620"}, 0.10, 0.90, false)
}

// DefaultDashboardPolicy matches the interactive NCM detail view.
func DefaultDashboardPolicy() Policy {
	return NewPolicy([]string{"400", "410", "510", "515", "550", "620"}, 0.10, 0.90, true)
}

// Compute returns the display rates for a CST code and IBS/CBS percentage
// reductions. Reductions that are NaN or infinite are treated as 0; numeric
// coercion never fails.
func (p Policy) Compute(cst string, pRedIBS, pRedCBS float64) Result {
	if _, ok := p.exempt[strings.TrimSpace(cst)]; ok {
		return Result{IBS: "0%", CBS: "0%", Exempt: true}
	}

	ibs := p.ibsBase * (1 - sanitizeReduction(pRedIBS)/100)
	cbs := p.cbsBase * (1 - sanitizeReduction(pRedCBS)/100)

	return Result{
		IBS: p.format(ibs),
		CBS: p.format(cbs),
	}
}

func (p Policy) format(rate float64) string {
	pct := rate * 100
	if p.trimZeros {
		s := strconv.FormatFloat(pct, 'f', 4, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		return s + "%"
	}
	return strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

func sanitizeReduction(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatClassCode renders a classification code zero-padded to 6 digits.
// Codes longer than 6 digits are kept as-is, never truncated.
func FormatClassCode(code int64) string {
	s := strconv.FormatInt(code, 10)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

// ParseReduction coerces a raw spreadsheet/form value into a percentage
// reduction. Empty or non-numeric input maps to 0. Commas are accepted as
// decimal separators since most source sheets are pt-BR.
func ParseReduction(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return sanitizeReduction(v)
}
