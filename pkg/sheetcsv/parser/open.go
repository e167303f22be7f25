// Package parser builds workbooks from XLSX and legacy XLS documents.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
)

// ErrInvalidDocument indicates the input is not a readable spreadsheet.
var ErrInvalidDocument = errors.New("invalid spreadsheet document")

// Format identifies the container format of a spreadsheet document.
type Format int

const (
	// FormatUnknown is anything that is neither XLSX nor XLS.
	FormatUnknown Format = iota
	// FormatXLSX is an Office Open XML (zip) workbook.
	FormatXLSX
	// FormatXLS is a compound-file (OLE2) workbook. Encrypted XLSX files
	// also use this container.
	FormatXLS
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	default:
		return "unknown"
	}
}

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect identifies the container format from the leading bytes of data.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	default:
		return FormatUnknown
	}
}

// Open reads r to the end and parses it as a workbook.
// The caller must Close the returned workbook.
func Open(r io.Reader) (*models.MemWorkbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses data as a workbook. Errors wrap ErrInvalidDocument when
// data is empty, of an unknown format, or corrupt.
func OpenBytes(data []byte) (*models.MemWorkbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidDocument)
	}

	switch Detect(data) {
	case FormatXLSX:
		return openXLSX(data)
	case FormatXLS:
		wb, err := openXLS(data)
		if err == nil {
			return wb, nil
		}
		if wb, xerr := openXLSX(data); xerr == nil {
			return wb, nil
		}
		return nil, err
	default:
		return nil, fmt.Errorf("%w: only .xls and .xlsx workbooks are supported", ErrInvalidDocument)
	}
}
