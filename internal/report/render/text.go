package render

import (
	"bytes"
	"strings"
)

// TextRenderer produces a pipe-delimited plain-text table. Output is
// byte-stable for identical inputs except for the trailing generation
// timestamp line.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(in Input) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(in.Title)
	buf.WriteString("\n")
	if strings.TrimSpace(in.Organization) != "" {
		buf.WriteString(in.Organization)
		buf.WriteString("\n")
	}

	if in.User != nil {
		buf.WriteString("Gerado por: " + in.User.Name + "\n")
		if strings.TrimSpace(in.User.TaxID) != "" {
			buf.WriteString("CPF/CNPJ: " + in.User.TaxID + "\n")
		}
	}
	buf.WriteString("\n")

	header := strings.Join(columnTitles, " | ")
	buf.WriteString(header)
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("-", len(header)))
	buf.WriteString("\n")

	for _, row := range in.Rows {
		fields := []string{
			row.NcmCode,
			collapseNewlines(row.NcmDescription),
			row.Cst,
			row.ClassCode,
			row.IbsRate,
			row.CbsRate,
		}
		buf.WriteString(strings.Join(fields, " | "))
		buf.WriteString("\n")
	}

	buf.WriteString("\nGerado em: ")
	buf.WriteString(in.GeneratedAt.Format("02/01/2006 15:04:05"))
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
