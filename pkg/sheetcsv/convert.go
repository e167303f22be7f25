package sheetcsv

import (
	"fmt"
	"io"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/parser"
)

// Convert parses r as an XLS or XLSX workbook and exports it. At most
// Config.MaxInputSize bytes are read. A document that cannot be parsed
// yields no documents and Result.Err wrapping ErrInvalidDocument or
// ErrInputTooLarge.
func Convert(r io.Reader, sourceName string, cfg Config) *Result {
	log := cfg.logger().With("source", sourceName)
	if err := cfg.Validate(); err != nil {
		return &Result{Err: err}
	}

	limit := cfg.maxInputSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return &Result{Err: fmt.Errorf("read input: %w", err)}
	}
	if int64(len(data)) > limit {
		return &Result{Err: fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)}
	}

	wb, err := parser.OpenBytes(data)
	if err != nil {
		log.Error("workbook rejected", "error", err)
		return &Result{Err: err}
	}
	defer func() {
		if err := wb.Close(); err != nil {
			log.Warn("close workbook", "error", err)
		}
	}()

	return Export(wb, sourceName, cfg)
}
