package csvtext

import (
	"strings"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
)

// CellFormatter renders one cell as display text.
type CellFormatter interface {
	Format(sheet string, c *models.Cell) string
}

// Serializer renders rows and sheets as delimited text.
type Serializer struct {
	// Delimiter separates fields within a line.
	Delimiter string
	// Convention escapes each field.
	Convention Convention
	// Formatter produces the display text of each cell.
	Formatter CellFormatter
}

// Row renders one row without a line terminator. A nil row renders as "".
func (s *Serializer) Row(sheet string, row models.Row) string {
	if row == nil {
		return ""
	}
	var b strings.Builder
	last := row.LastCellNum()
	for i := 0; i < last; i++ {
		if i > 0 {
			b.WriteString(s.Delimiter)
		}
		b.WriteString(Escape(s.field(sheet, row.Cell(i)), s.Delimiter, s.Convention))
	}
	return b.String()
}

// Sheet renders every row from index 0 through the last row index, each
// followed by "\n". Absent rows produce blank lines. A sheet without
// physical rows renders as "".
func (s *Serializer) Sheet(sheet models.Sheet) string {
	if sheet.PhysicalRows() <= 0 {
		return ""
	}
	var b strings.Builder
	name := sheet.Name()
	last := sheet.LastRowIndex()
	for i := 0; i <= last; i++ {
		b.WriteString(s.Row(name, sheet.Row(i)))
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *Serializer) field(sheet string, c *models.Cell) string {
	if c.IsBlank() || s.Formatter == nil {
		return ""
	}
	return s.Formatter.Format(sheet, c)
}
