package render

import (
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

const fallbackHeaderRow = 1

// XLSXRenderer fills a spreadsheet template with report rows. When the
// template workbook is missing a minimal single-sheet workbook is
// synthesized with the default column headers.
type XLSXRenderer struct {
	log          *zap.Logger
	templatePath string
}

func NewXLSXRenderer(log *zap.Logger, templatePath string) *XLSXRenderer {
	return &XLSXRenderer{
		log:          log.Named("report.render.xlsx"),
		templatePath: templatePath,
	}
}

func (r *XLSXRenderer) Render(in Input) ([]byte, error) {
	f, sheet := r.openWorkbook()
	defer f.Close()

	headerRow, headerCells := locateHeaderRow(f, sheet)

	if in.User != nil {
		inserted, err := r.insertUserRows(f, sheet, headerRow, len(headerCells), in.User)
		if err != nil {
			return nil, err
		}
		headerRow += inserted
	}

	if err := clearRowsBelow(f, sheet, headerRow); err != nil {
		return nil, err
	}

	columns := resolveColumns(headerCells)

	for i, item := range in.Rows {
		rowIdx := headerRow + 1 + i
		setCell(f, sheet, columns, colNcm, rowIdx, item.NcmCode)
		setCell(f, sheet, columns, colDesc, rowIdx, item.NcmDescription)
		setCell(f, sheet, columns, colCst, rowIdx, item.Cst)
		setCell(f, sheet, columns, colClassTrib, rowIdx, item.ClassCode)
		setCell(f, sheet, columns, colIbs, rowIdx, item.IbsRate)
		setCell(f, sheet, columns, colCbs, rowIdx, item.CbsRate)
	}

	if err := r.styleHeader(f, sheet, headerRow, len(headerCells)); err != nil {
		return nil, err
	}

	hideGrid := false
	_ = f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &hideGrid})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *XLSXRenderer) openWorkbook() (*excelize.File, string) {
	if strings.TrimSpace(r.templatePath) != "" {
		if _, err := os.Stat(r.templatePath); err == nil {
			f, err := excelize.OpenFile(r.templatePath)
			if err == nil {
				return f, f.GetSheetName(0)
			}
			r.log.Warn("template workbook unreadable, synthesizing", zap.Error(err))
		}
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, title := range columnTitles {
		cell, _ := excelize.CoordinatesToCellName(i+1, fallbackHeaderRow)
		_ = f.SetCellValue(sheet, cell, title)
	}
	return f, sheet
}

// locateHeaderRow scans the sheet for a row naming both a code-like and a
// description-like column; templates without one fall back to the first row.
func locateHeaderRow(f *excelize.File, sheet string) (int, []string) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fallbackHeaderRow, columnTitles
	}

	for i, cells := range rows {
		if isHeaderRow(cells) {
			return i + 1, cells
		}
	}

	if len(rows) >= fallbackHeaderRow {
		return fallbackHeaderRow, rows[fallbackHeaderRow-1]
	}
	return fallbackHeaderRow, columnTitles
}

// insertUserRows places the requesting user's name and tax ID immediately
// above the header, merged across the table width and right-aligned.
func (r *XLSXRenderer) insertUserRows(f *excelize.File, sheet string, headerRow, width int, user *reportdomain.RequestingUser) (int, error) {
	lines := []string{"Gerado por: " + user.Name}
	if strings.TrimSpace(user.TaxID) != "" {
		lines = append(lines, "CPF/CNPJ: "+user.TaxID)
	}

	if err := f.InsertRows(sheet, headerRow, len(lines)); err != nil {
		return 0, err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Font:      &excelize.Font{Italic: true, Size: 10},
	})
	if err != nil {
		return 0, err
	}

	if width < len(columnTitles) {
		width = len(columnTitles)
	}

	for i, line := range lines {
		rowIdx := headerRow + i
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(width, rowIdx)
		if err := f.MergeCell(sheet, first, last); err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheet, first, line); err != nil {
			return 0, err
		}
		_ = f.SetCellStyle(sheet, first, last, styleID)
	}

	return len(lines), nil
}

// clearRowsBelow removes template sample data under the header.
func clearRowsBelow(f *excelize.File, sheet string, headerRow int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for i := len(rows); i > headerRow; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return err
		}
	}
	return nil
}

func (r *XLSXRenderer) styleHeader(f *excelize.File, sheet string, headerRow, width int) error {
	if width < len(columnTitles) {
		width = len(columnTitles)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	styleID, err := f.NewStyle(&excelize.Style{
		Border: border,
		Font:   &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(width, headerRow)
	return f.SetCellStyle(sheet, first, last, styleID)
}

func setCell(f *excelize.File, sheet string, columns map[columnKey]int, key columnKey, rowIdx int, value string) {
	colIdx, ok := columns[key]
	if !ok {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(colIdx, rowIdx)
	_ = f.SetCellValue(sheet, cell, value)
}
