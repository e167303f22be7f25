package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/format"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
	"github.com/xuri/excelize/v2"
)

// openXLSX parses an Office Open XML workbook. The returned workbook keeps
// the excelize file open for formula evaluation until it is closed.
func openXLSX(data []byte) (*models.MemWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	wb := models.NewWorkbook()
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.SetDate1904(*props.Date1904)
	}

	styles := NewStyleCache(f)
	for _, sheetName := range f.GetSheetList() {
		sheet, err := ExtractCells(f, sheetName, styles)
		if err != nil {
			// Chart sheets and unreadable worksheets export as empty sheets.
			sheet = models.NewSheet(sheetName)
		}
		wb.AddSheet(sheet)
	}

	wb.SetEvaluator(NewEvaluator(f))
	wb.SetCloser(f)
	return wb, nil
}

// ExtractCells reads the typed cells of one worksheet.
// Rows without values are left absent.
func ExtractCells(f *excelize.File, sheetName string, styles *StyleCache) (*models.MemSheet, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if styles == nil {
		styles = NewStyleCache(f)
	}

	sheet := models.NewSheet(sheetName)
	for rowIdx, row := range rows {
		if len(row) == 0 {
			continue
		}
		rowNum := rowIdx + 1 // 1-based row index
		sheet.EnsureRow(rowIdx).Extend(len(row))

		for colIdx, raw := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			if err != nil {
				return nil, err
			}
			cell, err := readCell(f, sheetName, cellName, raw, styles)
			if err != nil {
				return nil, err
			}
			if cell != nil {
				sheet.SetCell(rowIdx, colIdx, cell)
			}
		}
	}

	return sheet, nil
}

// readCell returns the typed value at cellName, or nil for a blank cell.
func readCell(f *excelize.File, sheetName, cellName, raw string, styles *StyleCache) (*models.Cell, error) {
	formula, err := f.GetCellFormula(sheetName, cellName)
	if err != nil {
		return nil, err
	}
	if raw == "" && formula == "" {
		return nil, nil
	}

	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return nil, err
	}
	numFmt := styles.NumFmt(sheetName, cellName)
	value := parseValue(cellType, raw, numFmt)
	if formula == "" {
		return value, nil
	}

	// A formula without a stored value has never been calculated.
	var cached *models.Cell
	if raw != "" {
		cached = value
	}
	cell := models.FormulaCell(formula, cached)
	cell.NumFmt = numFmt
	return cell, nil
}

// isoDateLayouts are the forms used by cells stored with t="d".
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseValue converts a raw cell string to a typed cell based on its stored type.
func parseValue(cellType excelize.CellType, raw, numFmt string) *models.Cell {
	switch cellType {
	case excelize.CellTypeBool:
		return models.BoolCell(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeError:
		return models.ErrorCell(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.TextCell(raw)
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return models.DateCell(t, numFmt)
			}
		}
		return models.TextCell(raw)
	default:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return models.NumberCell(v, numFmt)
		}
		return models.TextCell(raw)
	}
}

// StyleCache resolves the number format code of cells, caching per style id.
type StyleCache struct {
	f     *excelize.File
	codes map[int]string
}

// NewStyleCache returns an empty cache over f.
func NewStyleCache(f *excelize.File) *StyleCache {
	return &StyleCache{f: f, codes: make(map[int]string)}
}

// NumFmt returns the number format code applied to cellName ("" for General).
func (s *StyleCache) NumFmt(sheetName, cellName string) string {
	idx, err := s.f.GetCellStyle(sheetName, cellName)
	if err != nil {
		return ""
	}
	if code, ok := s.codes[idx]; ok {
		return code
	}

	code := ""
	if style, err := s.f.GetStyle(idx); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil && *style.CustomNumFmt != "":
			code = *style.CustomNumFmt
		case style.NumFmt != 0:
			code = format.Builtin(style.NumFmt)
		}
	}
	s.codes[idx] = code
	return code
}
