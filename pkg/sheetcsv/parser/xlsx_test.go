package parser

import (
	"errors"
	"testing"

	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/format"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/models"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook saves f to memory and parses it back.
func buildWorkbook(t *testing.T, f *excelize.File) *models.MemWorkbook {
	t.Helper()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write test workbook: %v", err)
	}
	wb, err := OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestExtractCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A4", "Text")

	wb := buildWorkbook(t, f)
	sheets := wb.Sheets()
	if len(sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(sheets))
	}
	sheet := sheets[0]

	if sheet.Name() != sheetName {
		t.Errorf("Expected sheet %q, got %q", sheetName, sheet.Name())
	}
	if sheet.PhysicalRows() != 3 {
		t.Errorf("Expected 3 physical rows, got %d", sheet.PhysicalRows())
	}
	if sheet.LastRowIndex() != 3 {
		t.Errorf("Expected last row index 3, got %d", sheet.LastRowIndex())
	}
	if sheet.Row(2) != nil {
		t.Errorf("Expected row 3 to be absent")
	}

	header := sheet.Row(0)
	if header.LastCellNum() != 2 {
		t.Errorf("Expected 2 cells in header, got %d", header.LastCellNum())
	}
	if c := header.Cell(0); c == nil || c.Kind != models.KindText || c.Text != "Header1" {
		t.Errorf("Expected text 'Header1', got %+v", c)
	}

	if c := sheet.Row(1).Cell(0); c == nil || c.Kind != models.KindNumeric || c.Number != 100 {
		t.Errorf("Expected numeric 100, got %+v", c)
	}
	if c := sheet.Row(1).Cell(1); c == nil || c.Number != 200.5 {
		t.Errorf("Expected numeric 200.5, got %+v", c)
	}
}

func TestExtractCellsFormulas(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", 1)
	f.SetCellValue(sheetName, "B1", 2)
	if err := f.SetCellFormula(sheetName, "C1", "A1+B1"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}
	if err := f.SetCellFormula(sheetName, "D1", "A1/0"); err != nil {
		t.Fatalf("SetCellFormula failed: %v", err)
	}
	f.SetCellValue(sheetName, "E1", "end")

	wb := buildWorkbook(t, f)
	sheet := wb.Sheet("sheet1")
	if sheet == nil {
		t.Fatalf("Expected case-insensitive lookup of Sheet1")
	}

	row := sheet.Row(0)
	if row.LastCellNum() != 5 {
		t.Fatalf("Expected 5 cells, got %d", row.LastCellNum())
	}
	sum := row.Cell(2)
	if sum == nil || sum.Kind != models.KindFormula || sum.Formula != "A1+B1" {
		t.Fatalf("Expected formula cell A1+B1, got %+v", sum)
	}

	fm := format.ForWorkbook(wb)
	if got := fm.Format(sheetName, sum); got != "3" {
		t.Errorf("Expected C1 to evaluate to '3', got %q", got)
	}
	if got := fm.Format(sheetName, row.Cell(3)); got != "#DIV/0!" {
		t.Errorf("Expected D1 to evaluate to '#DIV/0!', got %q", got)
	}
}

func TestExtractCellsNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	pctFmt := "0.0%"
	pctStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}

	f.SetCellValue(sheetName, "A1", 45306)
	f.SetCellStyle(sheetName, "A1", "A1", dateStyle)
	f.SetCellValue(sheetName, "B1", 0.125)
	f.SetCellStyle(sheetName, "B1", "B1", pctStyle)
	f.SetCellValue(sheetName, "C1", true)

	wb := buildWorkbook(t, f)
	row := wb.Sheets()[0].Row(0)
	fm := format.ForWorkbook(wb)

	tests := []struct {
		col      int
		expected string
	}{
		{0, "2024-01-15"},
		{1, "12.5%"},
		{2, "TRUE"},
	}
	for _, tt := range tests {
		if got := fm.Format(sheetName, row.Cell(tt.col)); got != tt.expected {
			t.Errorf("Column %d: expected %q, got %q", tt.col, tt.expected, got)
		}
	}
}

func TestExtractCellsSheetOrder(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	if _, err := f.NewSheet("Summary"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Data", "A1", "x")

	wb := buildWorkbook(t, f)
	var names []string
	for _, s := range wb.Sheets() {
		names = append(names, s.Name())
	}
	expected := []string{"Sheet1", "Data", "Summary"}
	if len(names) != len(expected) {
		t.Fatalf("Expected sheets %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Expected sheet %d to be %q, got %q", i, expected[i], names[i])
		}
	}
	if wb.Sheet("Summary").PhysicalRows() != 0 {
		t.Errorf("Expected empty Summary sheet")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		cellType excelize.CellType
		raw      string
		kind     models.CellKind
	}{
		{excelize.CellTypeUnset, "123", models.KindNumeric},
		{excelize.CellTypeNumber, "-1.5", models.KindNumeric},
		{excelize.CellTypeUnset, "hello", models.KindText},
		{excelize.CellTypeSharedString, "123", models.KindText},
		{excelize.CellTypeBool, "1", models.KindBoolean},
		{excelize.CellTypeError, "#N/A", models.KindError},
		{excelize.CellTypeDate, "2024-01-15T00:00:00Z", models.KindDate},
		{excelize.CellTypeDate, "not a date", models.KindText},
	}

	for _, tt := range tests {
		result := parseValue(tt.cellType, tt.raw, "")
		if result.Kind != tt.kind {
			t.Errorf("parseValue(%v, %q) kind = %v, expected %v", tt.cellType, tt.raw, result.Kind, tt.kind)
		}
	}
}

func TestOpenBytesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("this is not a workbook\n")},
		{"truncated zip", []byte("PK\x03\x04garbage")},
		{"compound file garbage", append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, "garbage"...)},
	}

	for _, tt := range tests {
		wb, err := OpenBytes(tt.data)
		if !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: expected ErrInvalidDocument, got %v", tt.name, err)
		}
		if wb != nil {
			t.Errorf("%s: expected no workbook", tt.name)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		data     []byte
		expected Format
	}{
		{[]byte("PK\x03\x04rest"), FormatXLSX},
		{[]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}, FormatXLS},
		{[]byte("a,b,c"), FormatUnknown},
		{nil, FormatUnknown},
	}

	for _, tt := range tests {
		if result := Detect(tt.data); result != tt.expected {
			t.Errorf("Detect(%q) = %v, expected %v", tt.data, result, tt.expected)
		}
	}
}

func TestIsErrorLiteral(t *testing.T) {
	for _, s := range []string{"#DIV/0!", "#N/A", "#name?", " #REF! "} {
		if !IsErrorLiteral(s) {
			t.Errorf("IsErrorLiteral(%q) = false, expected true", s)
		}
	}
	for _, s := range []string{"", "#", "DIV/0", "#hashtag"} {
		if IsErrorLiteral(s) {
			t.Errorf("IsErrorLiteral(%q) = true, expected false", s)
		}
	}
}
