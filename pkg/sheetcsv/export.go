package sheetcsv

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/csvtext"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/format"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
)

// Result holds the outcome of exporting one workbook.
type Result struct {
	// Documents holds one document per exported sheet, in selection order.
	Documents []*models.ExportedDocument
	// Missing lists requested sheet names that matched no sheet.
	Missing []string
	// Failures holds sheets that could not be exported.
	Failures []*ExportError
	// Err is set when the workbook as a whole could not be exported.
	// Documents is empty in that case.
	Err error
}

// Failed returns every failure of the export joined into one error, or nil.
func (r *Result) Failed() error {
	errs := []error{r.Err}
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Export serializes the selected sheets of wb. sourceName is the name of
// the input file and may be empty. Export never closes wb.
func Export(wb models.Workbook, sourceName string, cfg Config) *Result {
	log := cfg.logger().With("source", sourceName)
	if err := cfg.Validate(); err != nil {
		return &Result{Err: err}
	}

	res := &Result{}
	sheets := selectSheets(wb, cfg.ExtractSheets, res, log)
	log.Info("exporting sheets", "selected", len(sheets), "missing", len(res.Missing))

	ser := &csvtext.Serializer{
		Delimiter:  cfg.Delimiter,
		Convention: cfg.Convention,
		Formatter:  format.ForWorkbook(wb),
	}
	for _, sheet := range sheets {
		doc, err := exportSheet(ser, sheet, sourceName, cfg)
		if err != nil {
			log.Error("sheet export failed", "sheet", err.SheetName, "stage", err.Stage, "error", err.Err)
			res.Failures = append(res.Failures, err)
			continue
		}
		res.Documents = append(res.Documents, doc)
	}
	return res
}

// selectSheets resolves the requested names in request order, or returns
// every sheet when names is nil. Unmatched names are recorded in res.
func selectSheets(wb models.Workbook, names []string, res *Result, log *slog.Logger) []models.Sheet {
	if names == nil {
		return wb.Sheets()
	}
	var sheets []models.Sheet
	for _, name := range names {
		sheet := wb.Sheet(name)
		if sheet == nil {
			log.Debug("requested sheet not found", "sheet", name)
			res.Missing = append(res.Missing, name)
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func exportSheet(ser *csvtext.Serializer, sheet models.Sheet, sourceName string, cfg Config) (doc *models.ExportedDocument, exportErr *ExportError) {
	name := sheet.Name()
	defer func() {
		// A panic while formatting one sheet fails that sheet only.
		if r := recover(); r != nil {
			doc, exportErr = nil, NewExportError(name, StageSerialize, fmt.Errorf("panic: %v", r))
		}
	}()

	text := ser.Sheet(sheet)
	content, err := encodeText(text, cfg)
	if err != nil {
		return nil, NewExportError(name, StageEncode, err)
	}
	return &models.ExportedDocument{
		Content:    content,
		SheetName:  name,
		RowCount:   sheet.PhysicalRows(),
		SourceName: sourceName,
		FileName:   FileName(sourceName, name),
		MimeType:   models.CSVMimeType,
	}, nil
}
