package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

func renderedWorkbook(t *testing.T, out []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXLSXRenderer_SynthesizedWorkbook(t *testing.T) {
	r := NewXLSXRenderer(zaptest.NewLogger(t), "")

	out, err := r.Render(sampleInput())
	require.NoError(t, err)

	f := renderedWorkbook(t, out)
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columnTitles, rows[0])
	assert.Equal(t, []string{"01012100", "Cavalos reprodutores de raça pura", "000", "000001", "10.00%", "90.00%"}, rows[1])
	assert.Equal(t, "22030000", rows[2][0])
}

func TestXLSXRenderer_TemplateColumnsAndSampleRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelo.xlsx")

	tpl := excelize.NewFile()
	sheet := tpl.GetSheetName(0)
	// Title row above the header, reordered columns, stale sample data.
	require.NoError(t, tpl.SetCellValue(sheet, "A1", "Modelo interno"))
	for i, title := range []string{"Descrição", "Código NCM", "Classificação Tributária", "CST", "Alíquota CBS", "Alíquota IBS"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, tpl.SetCellValue(sheet, cell, title))
	}
	require.NoError(t, tpl.SetCellValue(sheet, "A3", "exemplo antigo"))
	require.NoError(t, tpl.SetCellValue(sheet, "B4", "99999999"))
	require.NoError(t, tpl.SaveAs(path))
	require.NoError(t, tpl.Close())

	r := NewXLSXRenderer(zaptest.NewLogger(t), path)
	out, err := r.Render(sampleInput())
	require.NoError(t, err)

	f := renderedWorkbook(t, out)
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Modelo interno", rows[0][0])
	// Row order follows the template, not the default layout.
	assert.Equal(t, "Cavalos reprodutores de raça pura", rows[2][0])
	assert.Equal(t, "01012100", rows[2][1])
	assert.Equal(t, "000001", rows[2][2])
	assert.Equal(t, "000", rows[2][3])
	assert.Equal(t, "90.00%", rows[2][4])
	assert.Equal(t, "10.00%", rows[2][5])

	for _, row := range rows {
		for _, cell := range row {
			assert.NotEqual(t, "exemplo antigo", cell)
			assert.NotEqual(t, "99999999", cell)
		}
	}
}

func TestXLSXRenderer_UserRowsAboveHeader(t *testing.T) {
	in := sampleInput()
	in.User = &reportdomain.RequestingUser{Name: "Maria Souza", TaxID: "123.456.789-00"}

	r := NewXLSXRenderer(zaptest.NewLogger(t), "")
	out, err := r.Render(in)
	require.NoError(t, err)

	f := renderedWorkbook(t, out)
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "Gerado por: Maria Souza", rows[0][0])
	assert.Equal(t, "CPF/CNPJ: 123.456.789-00", rows[1][0])
	assert.Equal(t, columnTitles, rows[2])
	assert.Equal(t, "01012100", rows[3][0])

	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestXLSXRenderer_MissingTemplateFallsBack(t *testing.T) {
	r := NewXLSXRenderer(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "nope.xlsx"))

	out, err := r.Render(sampleInput())
	require.NoError(t, err)

	f := renderedWorkbook(t, out)
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, columnTitles, rows[0])
}
