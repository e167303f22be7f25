// Package models defines the read-only workbook view consumed by the CSV export.
package models

import "time"

// CellKind identifies the variant held by a Cell.
type CellKind int

const (
	// KindBlank is an empty cell.
	KindBlank CellKind = iota
	// KindNumeric holds a float64 in Number.
	KindNumeric
	// KindText holds a string in Text.
	KindText
	// KindBoolean holds a bool in Bool.
	KindBoolean
	// KindDate holds a timestamp in Time.
	KindDate
	// KindError holds an error literal such as "#DIV/0!" in Text.
	KindError
	// KindFormula holds an expression in Formula and its cached result in Result.
	KindFormula
)

func (k CellKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindError:
		return "error"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Cell is a single typed cell value.
type Cell struct {
	// Row is the zero-based row index.
	Row int
	// Col is the zero-based column index.
	Col int
	// Kind selects which value field is meaningful.
	Kind CellKind
	// Number is the value of a numeric cell (or the serial of a date stored as a number).
	Number float64
	// Text is the value of a text cell or the literal of an error cell.
	Text string
	// Bool is the value of a boolean cell.
	Bool bool
	// Time is the value of a date cell.
	Time time.Time
	// NumFmt is the number format code applied to the cell ("" means General).
	NumFmt string
	// Formula is the expression of a formula cell, without the leading '='.
	Formula string
	// Result is the cached result of a formula cell (nil if never calculated).
	Result *Cell
}

// IsBlank reports whether c holds no value.
func (c *Cell) IsBlank() bool {
	return c == nil || c.Kind == KindBlank
}

// NumberCell returns a numeric cell.
func NumberCell(v float64, numFmt string) *Cell {
	return &Cell{Kind: KindNumeric, Number: v, NumFmt: numFmt}
}

// TextCell returns a text cell.
func TextCell(s string) *Cell {
	return &Cell{Kind: KindText, Text: s}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) *Cell {
	return &Cell{Kind: KindBoolean, Bool: b}
}

// DateCell returns a date cell.
func DateCell(t time.Time, numFmt string) *Cell {
	return &Cell{Kind: KindDate, Time: t, NumFmt: numFmt}
}

// ErrorCell returns an error cell holding a literal such as "#N/A".
func ErrorCell(literal string) *Cell {
	return &Cell{Kind: KindError, Text: literal}
}

// FormulaCell returns a formula cell with an optional cached result.
func FormulaCell(formula string, result *Cell) *Cell {
	c := &Cell{Kind: KindFormula, Formula: formula, Result: result}
	if result != nil {
		c.NumFmt = result.NumFmt
	}
	return c
}
