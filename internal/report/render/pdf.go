package render

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

// Grid spans per column (12-column grid): NCM, description, CST,
// classification, IBS rate, CBS rate. The description column takes the
// largest share so wrapped text stays readable.
var pdfSpans = []int{2, 5, 1, 2, 1, 1}

const (
	pdfBaseRowHeight   = 7.0
	pdfLineHeight      = 4.0
	pdfDescCharsPerRow = 52
)

// PDFRenderer builds the paginated PDF table. The organization logomark is
// drawn as a page background on every page; a missing or unreadable logo
// degrades to no watermark instead of failing the report.
type PDFRenderer struct {
	log      *zap.Logger
	logoPath string
}

func NewPDFRenderer(log *zap.Logger, logoPath string) *PDFRenderer {
	return &PDFRenderer{
		log:      log.Named("report.render.pdf"),
		logoPath: logoPath,
	}
}

func (r *PDFRenderer) Render(in Input) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		})

	if logo := r.loadLogo(); logo != nil {
		builder = builder.WithBackgroundImage(logo, extension.Png)
	}

	m := maroto.New(builder.Build())

	if err := m.RegisterHeader(r.headerRows(in)...); err != nil {
		return nil, fmt.Errorf("register pdf header: %w", err)
	}

	for _, item := range in.Rows {
		m.AddRows(r.dataRow(item))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func (r *PDFRenderer) loadLogo() []byte {
	if strings.TrimSpace(r.logoPath) == "" {
		return nil
	}
	logo, err := os.ReadFile(r.logoPath)
	if err != nil {
		r.log.Warn("logo unavailable, rendering without watermark", zap.Error(err))
		return nil
	}
	return logo
}

func (r *PDFRenderer) headerRows(in Input) []core.Row {
	rows := make([]core.Row, 0, 4)

	rows = append(rows, row.New(10).Add(
		text.NewCol(12, in.Title, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	))

	if strings.TrimSpace(in.Organization) != "" {
		rows = append(rows, row.New(6).Add(
			text.NewCol(12, in.Organization, props.Text{
				Size:  9,
				Align: align.Center,
			}),
		))
	}

	if in.User != nil {
		stamp := in.User.Name
		if strings.TrimSpace(in.User.TaxID) != "" {
			stamp += " - " + in.User.TaxID
		}
		rows = append(rows, row.New(6).Add(
			text.NewCol(12, stamp, props.Text{
				Size:  8,
				Align: align.Right,
			}),
		))
	}

	header := row.New(8)
	for i, title := range columnTitles {
		header.Add(text.NewCol(pdfSpans[i], title, props.Text{
			Size:  9,
			Style: fontstyle.Bold,
		}))
	}
	rows = append(rows, header)

	return rows
}

func (r *PDFRenderer) dataRow(item reportdomain.Row) core.Row {
	cells := []string{
		item.NcmCode,
		collapseNewlines(item.NcmDescription),
		item.Cst,
		item.ClassCode,
		item.IbsRate,
		item.CbsRate,
	}

	out := row.New(rowHeight(cells[1]))
	for i, value := range cells {
		if value == "" {
			out.Add(col.New(pdfSpans[i]))
			continue
		}
		out.Add(text.NewCol(pdfSpans[i], value, props.Text{Size: 8}))
	}
	return out
}

// rowHeight guarantees the wrapped description never clips: the row grows
// with the estimated wrapped line count of its longest cell, which in this
// table is always the description.
func rowHeight(description string) float64 {
	lines := utf8.RuneCountInString(description)/pdfDescCharsPerRow + 1
	h := pdfBaseRowHeight
	if extra := float64(lines-1) * pdfLineHeight; extra > 0 {
		h += extra
	}
	return h
}
