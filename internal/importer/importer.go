// Package importer extracts NCM codes from user-supplied spreadsheets for
// batch lookups.
package importer

import (
	"io"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
)

// Extractor pulls candidate NCM codes out of a workbook. Column layout is
// not fixed: when a header names an NCM column only that column is read,
// otherwise every cell is considered.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: log.Named("importer")}
}

// ExtractCodes reads an xlsx stream and returns the 8-digit NCM codes found,
// in first-seen order without duplicates.
func (e *Extractor) ExtractCodes(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	codeCol := -1
	seen := make(map[string]struct{})
	out := make([]string, 0, len(rows))

	collect := func(cell string) {
		code := ncmdomain.NormalizeCode(cell)
		if len(code) != 8 {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	for _, cells := range rows {
		if codeCol < 0 {
			if col := findCodeColumn(cells); col >= 0 {
				codeCol = col
				continue
			}
		}

		if codeCol >= 0 {
			if codeCol < len(cells) {
				collect(cells[codeCol])
			}
			continue
		}

		for _, cell := range cells {
			collect(cell)
		}
	}

	e.log.Debug("spreadsheet codes extracted",
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)),
		zap.Int("codes", len(out)),
	)
	return out, nil
}

// findCodeColumn returns the 0-based index of a header cell naming the NCM
// column, or -1 when the row is not a header.
func findCodeColumn(cells []string) int {
	for i, cell := range cells {
		h := normalizeCell(cell)
		if h == "" {
			continue
		}
		if strings.Contains(h, "NCM") || strings.Contains(h, "CODIGO") {
			return i
		}
	}
	return -1
}

var cellStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func normalizeCell(s string) string {
	stripped, _, err := transform.String(cellStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
