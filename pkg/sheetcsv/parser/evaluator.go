package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
	"github.com/xuri/excelize/v2"
)

// errorLiterals are the values a formula can evaluate to on failure.
var errorLiterals = map[string]bool{
	"#NULL!":         true,
	"#DIV/0!":        true,
	"#VALUE!":        true,
	"#REF!":          true,
	"#NAME?":         true,
	"#NUM!":          true,
	"#N/A":           true,
	"#GETTING_DATA":  true,
	"#SPILL!":        true,
	"#CALC!":         true,
	"#FIELD!":        true,
	"#BLOCKED!":      true,
	"#CONNECT!":      true,
	"#UNKNOWN!":      true,
	"#BUSY!":         true,
	"#EXTERNAL!":     true,
	"#PYTHON!":       true,
	"#TIMEOUT!":      true,
	"#CIRCULAR_REF!": true,
}

// IsErrorLiteral reports whether s is a spreadsheet error value.
func IsErrorLiteral(s string) bool {
	return errorLiterals[strings.ToUpper(strings.TrimSpace(s))]
}

// Evaluator calculates formula cells of one excelize workbook and caches
// each result. It is bound to a single workbook and is not safe for
// concurrent use.
type Evaluator struct {
	f       *excelize.File
	results map[string]*models.Cell
}

// NewEvaluator returns an Evaluator over f.
func NewEvaluator(f *excelize.File) *Evaluator {
	return &Evaluator{f: f, results: make(map[string]*models.Cell)}
}

// Evaluate implements models.Evaluator.
func (e *Evaluator) Evaluate(sheet string, c *models.Cell) (*models.Cell, error) {
	cellName, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return nil, err
	}
	key := sheet + "!" + cellName
	if r, ok := e.results[key]; ok {
		return r, nil
	}

	raw, err := e.f.CalcCellValue(sheet, cellName, excelize.Options{RawCellValue: true})
	var result *models.Cell
	switch {
	case err == nil:
		result = classifyResult(raw, c)
	case IsErrorLiteral(raw):
		result = models.ErrorCell(strings.ToUpper(strings.TrimSpace(raw)))
	case IsErrorLiteral(err.Error()):
		result = models.ErrorCell(strings.ToUpper(strings.TrimSpace(err.Error())))
	default:
		return nil, err
	}

	e.results[key] = result
	return result, nil
}

// classifyResult types a calculated value. A cached text result keeps
// numeric-looking strings such as "00123" as text.
func classifyResult(raw string, c *models.Cell) *models.Cell {
	if c.Result != nil && c.Result.Kind == models.KindText {
		return models.TextCell(raw)
	}
	switch {
	case raw == "TRUE":
		return models.BoolCell(true)
	case raw == "FALSE":
		return models.BoolCell(false)
	case IsErrorLiteral(raw):
		return models.ErrorCell(raw)
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return models.NumberCell(v, c.NumFmt)
	}
	return models.TextCell(raw)
}
