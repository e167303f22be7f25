// Package sheetcsv exports spreadsheet workbooks as delimited text, one
// document per sheet.
package sheetcsv

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
)

const (
	// DefaultDelimiter separates fields unless configured otherwise.
	DefaultDelimiter = ","
	// DefaultCharset encodes output that is not UTF-8.
	DefaultCharset = "windows-1252"
	// DefaultMaxInputSize bounds the bytes read from one input (100 MiB).
	DefaultMaxInputSize int64 = 100 << 20
)

// Config configures one export.
type Config struct {
	// Delimiter separates fields within a line. Must not be empty.
	Delimiter string
	// Convention escapes each field.
	Convention csvtext.Convention
	// UTF8Encoded writes a byte-order marker followed by UTF-8 text.
	// Otherwise the text is encoded with Charset.
	UTF8Encoded bool
	// ExtractSheets lists the sheets to export, matched case-insensitively.
	// Nil exports every sheet.
	ExtractSheets []string
	// Charset is the IANA name of the output encoding used when
	// UTF8Encoded is false. Empty means DefaultCharset.
	Charset string
	// ReplaceUnsupported writes "?" for characters Charset cannot
	// represent. Otherwise such a sheet fails to export.
	ReplaceUnsupported bool
	// MaxInputSize bounds the bytes read by Convert. Zero means
	// DefaultMaxInputSize.
	MaxInputSize int64
	// Logger receives export events. If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultConfig returns the default export configuration.
func DefaultConfig() Config {
	return Config{
		Delimiter:    DefaultDelimiter,
		Convention:   csvtext.ExcelStyle,
		Charset:      DefaultCharset,
		MaxInputSize: DefaultMaxInputSize,
	}
}

// Validate reports every problem with the configuration. Each returned
// error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if c.Delimiter == "" {
		errs = append(errs, fmt.Errorf("%w: delimiter must not be empty", ErrInvalidConfig))
	}
	switch c.Convention {
	case csvtext.ExcelStyle, csvtext.UnixStyle, csvtext.None:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown escape convention %d", ErrInvalidConfig, int(c.Convention)))
	}
	if c.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("%w: max input size must not be negative", ErrInvalidConfig))
	}
	if !c.UTF8Encoded {
		if _, err := lookupCharset(c.Charset); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}
	return errors.Join(errs...)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) maxInputSize() int64 {
	if c.MaxInputSize > 0 {
		return c.MaxInputSize
	}
	return DefaultMaxInputSize
}

// ParseSheetList splits a comma-separated list of sheet names. Names are
// trimmed and empty entries dropped. A list without names yields nil,
// which selects every sheet.
func ParseSheetList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
