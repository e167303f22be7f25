// Package format renders typed cell values as the text a spreadsheet displays.
package format

import "github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"

// Formatter renders cells of one workbook. It is not safe for concurrent
// use because the evaluator it wraps caches per-workbook state.
type Formatter struct {
	eval     models.Evaluator
	date1904 bool
}

// New returns a Formatter that resolves formulas with ev.
func New(ev models.Evaluator, date1904 bool) *Formatter {
	if ev == nil {
		ev = models.CachedEvaluator{}
	}
	return &Formatter{eval: ev, date1904: date1904}
}

// ForWorkbook returns a Formatter bound to wb's evaluator and date system.
func ForWorkbook(wb models.Workbook) *Formatter {
	return New(wb.Evaluator(), wb.Date1904())
}

// Format returns the display text of c. Blank cells render as "".
// Formula cells render their evaluated result; when the evaluator fails the
// cached result is used instead.
func (f *Formatter) Format(sheet string, c *models.Cell) string {
	if c.IsBlank() {
		return ""
	}
	if c.Kind != models.KindFormula {
		return f.value(c)
	}

	res, err := f.eval.Evaluate(sheet, c)
	if err != nil || res == nil {
		res = c.Result
	}
	if res.IsBlank() || res.Kind == models.KindFormula {
		return ""
	}
	v := *res
	if v.NumFmt == "" {
		v.NumFmt = c.NumFmt
	}
	return f.value(&v)
}

func (f *Formatter) value(c *models.Cell) string {
	switch c.Kind {
	case models.KindNumeric:
		return Number(c.Number, c.NumFmt, f.date1904)
	case models.KindText, models.KindError:
		return c.Text
	case models.KindBoolean:
		if c.Bool {
			return "TRUE"
		}
		return "FALSE"
	case models.KindDate:
		return Time(c.Time, c.NumFmt)
	default:
		return ""
	}
}
