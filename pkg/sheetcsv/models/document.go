package models

// CSVMimeType is the MIME type of every exported document.
const CSVMimeType = "text/csv"

// ExportedDocument is one sheet serialized as delimited text.
type ExportedDocument struct {
	// Content is the encoded text, including the byte-order marker when requested.
	Content []byte `json:"-"`
	// SheetName is the name of the source sheet.
	SheetName string `json:"sheet_name"`
	// RowCount is the number of physical rows in the source sheet.
	RowCount int `json:"row_count"`
	// SourceName is the name of the source workbook (may be empty).
	SourceName string `json:"source_name"`
	// FileName is the derived output file name.
	FileName string `json:"filename"`
	// MimeType is always CSVMimeType.
	MimeType string `json:"mime_type"`
}
