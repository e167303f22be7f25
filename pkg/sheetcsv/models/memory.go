package models

import "io"

// MemRow is an in-memory Row.
type MemRow struct {
	cells []*Cell
}

// LastCellNum implements Row.
func (r *MemRow) LastCellNum() int {
	return len(r.cells)
}

// Cell implements Row.
func (r *MemRow) Cell(i int) *Cell {
	if i < 0 || i >= len(r.cells) || r.cells[i].IsBlank() {
		return nil
	}
	return r.cells[i]
}

// Set stores c at column col, growing the row as needed.
func (r *MemRow) Set(col int, c *Cell) {
	r.Extend(col + 1)
	r.cells[col] = c
}

// Extend grows the row so that LastCellNum is at least n.
// Added positions are blank.
func (r *MemRow) Extend(n int) {
	for len(r.cells) < n {
		r.cells = append(r.cells, nil)
	}
}

func (r *MemRow) hasCells() bool {
	for _, c := range r.cells {
		if !c.IsBlank() {
			return true
		}
	}
	return false
}

// MemSheet is an in-memory Sheet.
type MemSheet struct {
	name string
	rows []*MemRow
}

// NewSheet returns an empty sheet.
func NewSheet(name string) *MemSheet {
	return &MemSheet{name: name}
}

// TextSheet builds a sheet of text cells. Empty strings become blank cells.
func TextSheet(name string, rows [][]string) *MemSheet {
	s := NewSheet(name)
	for r, values := range rows {
		row := s.EnsureRow(r)
		row.Extend(len(values))
		for c, v := range values {
			if v != "" {
				s.SetCell(r, c, TextCell(v))
			}
		}
	}
	return s
}

// Name implements Sheet.
func (s *MemSheet) Name() string {
	return s.name
}

// PhysicalRows implements Sheet.
func (s *MemSheet) PhysicalRows() int {
	n := 0
	for _, r := range s.rows {
		if r != nil && r.hasCells() {
			n++
		}
	}
	return n
}

// LastRowIndex implements Sheet.
func (s *MemSheet) LastRowIndex() int {
	return len(s.rows) - 1
}

// Row implements Sheet.
func (s *MemSheet) Row(i int) Row {
	if i < 0 || i >= len(s.rows) || s.rows[i] == nil {
		return nil
	}
	return s.rows[i]
}

// EnsureRow returns the row at index i, creating it and any preceding
// absent rows' slots.
func (s *MemSheet) EnsureRow(i int) *MemRow {
	for len(s.rows) <= i {
		s.rows = append(s.rows, nil)
	}
	if s.rows[i] == nil {
		s.rows[i] = &MemRow{}
	}
	return s.rows[i]
}

// SetCell stores c at (row, col) and records its coordinates.
func (s *MemSheet) SetCell(row, col int, c *Cell) {
	if c != nil {
		c.Row, c.Col = row, col
	}
	s.EnsureRow(row).Set(col, c)
}

// MemWorkbook is an in-memory Workbook. Parsers build one per document.
type MemWorkbook struct {
	sheets    []*MemSheet
	evaluator Evaluator
	date1904  bool
	closer    io.Closer
}

// NewWorkbook returns a workbook holding sheets, evaluated from cached results.
func NewWorkbook(sheets ...*MemSheet) *MemWorkbook {
	return &MemWorkbook{
		sheets:    sheets,
		evaluator: CachedEvaluator{},
	}
}

// AddSheet appends s to the workbook.
func (w *MemWorkbook) AddSheet(s *MemSheet) {
	w.sheets = append(w.sheets, s)
}

// SetEvaluator replaces the formula evaluator.
func (w *MemWorkbook) SetEvaluator(ev Evaluator) {
	w.evaluator = ev
}

// SetDate1904 selects the 1904 date system.
func (w *MemWorkbook) SetDate1904(v bool) {
	w.date1904 = v
}

// SetCloser registers a resource released by Close.
func (w *MemWorkbook) SetCloser(c io.Closer) {
	w.closer = c
}

// Sheets implements Workbook.
func (w *MemWorkbook) Sheets() []Sheet {
	out := make([]Sheet, len(w.sheets))
	for i, s := range w.sheets {
		out[i] = s
	}
	return out
}

// Sheet implements Workbook.
func (w *MemWorkbook) Sheet(name string) Sheet {
	return FindSheet(w.Sheets(), name)
}

// Evaluator implements Workbook.
func (w *MemWorkbook) Evaluator() Evaluator {
	if w.evaluator == nil {
		return CachedEvaluator{}
	}
	return w.evaluator
}

// Date1904 implements Workbook.
func (w *MemWorkbook) Date1904() bool {
	return w.date1904
}

// Close releases the resource backing the workbook, if any.
func (w *MemWorkbook) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}
