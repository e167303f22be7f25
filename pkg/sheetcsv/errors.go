package sheetcsv

import (
	"errors"
	"fmt"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/parser"
)

// ErrInvalidDocument indicates the input is not a readable XLS or XLSX workbook.
var ErrInvalidDocument = parser.ErrInvalidDocument

// ErrInputTooLarge indicates the input exceeds Config.MaxInputSize.
var ErrInputTooLarge = errors.New("input too large")

// ErrUnsupportedCharset indicates an unknown output charset name.
var ErrUnsupportedCharset = errors.New("unsupported charset")

// ErrInvalidConfig indicates an unusable export configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Export stages reported by ExportError.
const (
	StageSerialize = "serialize"
	StageEncode    = "encode"
)

// ExportError represents a failure to export one sheet.
type ExportError struct {
	SheetName string
	Stage     string // StageSerialize or StageEncode
	Err       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error in sheet %q (%s): %v", e.SheetName, e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(sheetName, stage string, err error) *ExportError {
	return &ExportError{
		SheetName: sheetName,
		Stage:     stage,
		Err:       err,
	}
}
