package models

import "strings"

// Workbook is a parsed spreadsheet document.
type Workbook interface {
	// Sheets returns the sheets in workbook order.
	Sheets() []Sheet
	// Sheet returns the first sheet whose name matches case-insensitively, or nil.
	Sheet(name string) Sheet
	// Evaluator returns the formula evaluator bound to this workbook.
	Evaluator() Evaluator
	// Date1904 reports whether serial dates use the 1904 date system.
	Date1904() bool
}

// Sheet is one named grid of rows.
type Sheet interface {
	Name() string
	// PhysicalRows is the number of rows that hold at least one cell.
	PhysicalRows() int
	// LastRowIndex is the zero-based index of the last row, or -1 when the sheet is empty.
	LastRowIndex() int
	// Row returns the row at index i, or nil when the row is absent.
	Row(i int) Row
}

// Row is an ordered sequence of cells.
type Row interface {
	// LastCellNum is one past the index of the last cell in the row.
	LastCellNum() int
	// Cell returns the cell at index i, or nil when the cell is blank.
	Cell(i int) *Cell
}

// Evaluator resolves formula cells to a result value.
//
// An evaluator holds per-workbook cached state and must not be shared
// across workbooks or used from several goroutines at once.
type Evaluator interface {
	// Evaluate returns the result of the formula cell c on the named sheet.
	// A formula that evaluates to a spreadsheet error returns an error cell
	// and a nil error; a non-nil error means the evaluator could not run.
	Evaluate(sheet string, c *Cell) (*Cell, error)
}

// CachedEvaluator returns the result stored with each formula cell.
type CachedEvaluator struct{}

// Evaluate implements Evaluator.
func (CachedEvaluator) Evaluate(_ string, c *Cell) (*Cell, error) {
	if c == nil || c.Result == nil {
		return &Cell{}, nil
	}
	return c.Result, nil
}

// FindSheet returns the first sheet in sheets whose name equals name ignoring case.
func FindSheet(sheets []Sheet, name string) Sheet {
	for _, s := range sheets {
		if strings.EqualFold(s.Name(), name) {
			return s
		}
	}
	return nil
}
