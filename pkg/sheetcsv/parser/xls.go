package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
)

// xlsCharset is the charset passed to the BIFF decoder for byte strings.
const xlsCharset = "utf-8"

// openXLS parses a legacy BIFF workbook. The decoder formats numbers and
// dates itself and stores formula results, so every cell is read as its
// display text and formulas resolve to their cached values.
func openXLS(data []byte) (wb *models.MemWorkbook, err error) {
	// The BIFF decoder panics on some truncated records.
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("%w: %v", ErrInvalidDocument, r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if book == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrInvalidDocument)
	}

	wb = models.NewWorkbook()
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		wb.AddSheet(readXLSSheet(ws))
	}
	return wb, nil
}

func readXLSSheet(ws *xls.WorkSheet) *models.MemSheet {
	sheet := models.NewSheet(ws.Name)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := xlsRow(ws, r)
		if row == nil {
			continue
		}
		// The last column is exclusive in BIFF row records, but some writers
		// store it inclusive.
		last := row.LastCol()
		sheet.EnsureRow(r).Extend(last)
		for c := row.FirstCol(); c <= last; c++ {
			if v := row.Col(c); v != "" {
				sheet.SetCell(r, c, models.TextCell(v))
			}
		}
	}
	return sheet
}

// xlsRow returns row r, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences the missing row.
func xlsRow(ws *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(r)
}
